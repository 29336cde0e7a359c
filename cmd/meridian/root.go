package main

import (
	"github.com/spf13/cobra"

	"github.com/meridianhft/meridian/config"
	"github.com/meridianhft/meridian/logging"
)

var rootFlags struct {
	rootPath string
	env      string
}

// Execute runs the meridian command tree.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:           "meridian",
		Short:         "Market-data core utilities",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&rootFlags.rootPath, "root", ".", "config root path")
	rootCmd.PersistentFlags().StringVar(&rootFlags.env, "env", "dev", "logger environment (dev|prod)")

	rootCmd.AddCommand(benchCmd())
	rootCmd.AddCommand(schemaCmd())
	return rootCmd.Execute()
}

func setupLogger() (*logging.Logger, config.Config, error) {
	cfg, err := config.Read(rootFlags.rootPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	cfg.Logging.Environment = rootFlags.env
	log := logging.NewLoggerFromConfig(cfg.Logging)
	return log, cfg, nil
}
