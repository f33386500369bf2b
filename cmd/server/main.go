package main

import (
	"fmt"
	"os"

	"jobhub/internal/config"
	"jobhub/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "jobhub",
	Short: "jobhub - job marketplace API",
	Long: `jobhub serves the job marketplace API and its realtime event socket.

Commands:
  serve    - Start the HTTP API and the websocket listener
  migrate  - Apply pending SQL migrations
  seed     - Insert the admin account, skill catalogue and optional demo data`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys maps command flags onto the config keys they override.
var flagKeys = map[string]string{
	"port":    "HTTP_PORT",
	"ws-port": "WS_PORT",
}

// loadRuntime reads configuration, with any flags of cmd taking precedence
// over the environment, and builds the process logger.
func loadRuntime(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, nil, err
	}
	v := config.NewViper()
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return config.Config{}, nil, err
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	l, err := logger.New(cfg.App.IsProduction(), cfg.App.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, l, nil
}
