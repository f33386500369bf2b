package main

import (
	"jobhub/internal/database/seeder"
	"jobhub/internal/database/sqldb"

	"github.com/spf13/cobra"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the admin account, skill catalogue and optional demo data",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also insert a demo recruiter, company and jobs")
}

func runSeed(cmd *cobra.Command, _ []string) error {
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

	return seeder.Runner{Seeders: seeder.Defaults(cfg.Admin, seedDemo), Logger: l}.Run(cmd.Context(), db)
}
