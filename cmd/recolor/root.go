package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor/internal/cli"
	"github.com/aretw0/recolor/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "recolor",
	Short: "recolor migrates hard-coded colors to design tokens",
	Long: `recolor walks the selected nodes of a scene and binds their solid fills and strokes
to published variables, using style, variable and color mapping tables plus optional
advanced rules.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $RECOLOR_CONFIG or ./recolor.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")
}

// loadConfig resolves the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, _, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	logJSON, _ := cmd.Flags().GetBool("log-json")
	logger := cli.NewLogger(cfg.LogLevel, logJSON)
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return cfg, logger, nil
}
