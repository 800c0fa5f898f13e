package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor/internal/cli"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/mappings"
	"github.com/aretw0/recolor/pkg/ports"
	"github.com/aretw0/recolor/pkg/runner"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <scene>",
	Short: "Convert the selection of a scene file",
	Long: `Runs one conversion over the selection of a YAML or JSON scene and reports progress.
Output is human readable on a terminal and NDJSON otherwise (or with --json).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		library, _ := cmd.Flags().GetString("library")
		useRedis, _ := cmd.Flags().GetBool("redis")
		ruleIDs, _ := cmd.Flags().GetStringSlice("rule")
		jsonMode, _ := cmd.Flags().GetBool("json")
		out, _ := cmd.Flags().GetString("out")
		inPlace, _ := cmd.Flags().GetBool("in-place")
		if cmd.Flags().Changed("limit") {
			cfg.NodeLimit, _ = cmd.Flags().GetInt("limit")
		}
		if out != "" && inPlace {
			return fmt.Errorf("--out and --in-place cannot be used together")
		}
		if !cmd.Flags().Changed("json") && !cli.IsTerminal(os.Stdout) {
			jsonMode = true
		}

		var (
			emitter  ports.EventEmitter
			notifier ports.Notifier
			text     *runner.TextEmitter
		)
		if jsonMode {
			je := runner.NewJSONEmitter(os.Stdout)
			emitter, notifier = je, je
		} else {
			text = runner.NewTextEmitter(os.Stdout)
			emitter, notifier = text, text
		}

		built, err := cli.CreateEngine(cli.EngineOptions{
			ScenePath:   args[0],
			LibraryPath: library,
			UseRedis:    useRedis,
			Config:      cfg,
			Notifier:    notifier,
			Debug:       cfg.LogLevel == "debug",
			Persist:     inPlace,
		}, logger)
		if err != nil {
			return err
		}
		defer built.Close()

		req := domain.ConvertRequest{}
		if len(ruleIDs) > 0 {
			req.AdvancedRules, err = mappings.Enable(built.Engine.Rules(), ruleIDs...)
			if err != nil {
				return err
			}
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		outcome, runErr := built.Engine.Convert(ctx, req, emitter)
		if text != nil {
			text.PrintOutcome(outcome)
		}
		if sig := ctx.Signal(); sig != nil {
			logger.Warn("interrupted", "signal", sig)
		}

		if out != "" {
			if err := built.Scene.Save(out); err != nil {
				return err
			}
			logger.Info("scene written", "path", out)
		}
		if runErr != nil {
			return runErr
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("library", "", "Variable library file (default: library.yaml next to the scene)")
	convertCmd.Flags().Bool("redis", false, "Import variables from the Redis library in the config")
	convertCmd.Flags().StringSliceP("rule", "r", nil, "Enable an advanced rule by id (repeatable)")
	convertCmd.Flags().Int("limit", 0, "Node limit (<= 0 disables the check)")
	convertCmd.Flags().Bool("json", false, "Emit NDJSON events")
	convertCmd.Flags().StringP("out", "o", "", "Write the converted scene to this file")
	convertCmd.Flags().Bool("in-place", false, "Write the converted scene back to its file")
}
