package main

import (
	"jobhub/internal/database/migration"
	"jobhub/internal/database/sqldb"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, l, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	db, err := sqldb.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	dir := migrationsDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}

	n, err := migration.Runner{Dir: dir, Logger: l}.Run(cmd.Context(), db.SQLDB())
	if err != nil {
		return err
	}
	l.Info("migrations complete", zap.Int("applied", n))
	return nil
}
