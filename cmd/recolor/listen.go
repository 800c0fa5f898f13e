package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor/internal/cli"
	"github.com/aretw0/recolor/pkg/runner"
)

var listenCmd = &cobra.Command{
	Use:   "listen <scene>",
	Short: "Run conversions requested as NDJSON on stdin",
	Long: `Reads one {"type":"convert","payload":{"advancedRules":[...]}} message per line from stdin
and streams each run's events as NDJSON on stdout. Logs go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		library, _ := cmd.Flags().GetString("library")
		useRedis, _ := cmd.Flags().GetBool("redis")
		inPlace, _ := cmd.Flags().GetBool("in-place")

		emitter := runner.NewJSONEmitter(os.Stdout)
		built, err := cli.CreateEngine(cli.EngineOptions{
			ScenePath:   args[0],
			LibraryPath: library,
			UseRedis:    useRedis,
			Config:      cfg,
			Notifier:    emitter,
			Debug:       cfg.LogLevel == "debug",
			Persist:     inPlace,
		}, logger)
		if err != nil {
			return err
		}
		defer built.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = runner.Listen(ctx, os.Stdin, built.Engine, emitter,
			runner.WithLogger(logger),
			runner.WithNotifier(emitter),
		)
		if ctx.Signal() != nil {
			logger.Info("listener stopped", "signal", ctx.Signal())
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
	listenCmd.Flags().String("library", "", "Variable library file (default: library.yaml next to the scene)")
	listenCmd.Flags().Bool("redis", false, "Import variables from the Redis library in the config")
	listenCmd.Flags().Bool("in-place", false, "Write the scene back to its file after every run")
}
