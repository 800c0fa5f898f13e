package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/recolor/internal/cli"
	"github.com/aretw0/recolor/internal/presentation/graph"
	"github.com/aretw0/recolor/internal/presentation/tui"
	"github.com/aretw0/recolor/pkg/mappings"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the mapping tables and advanced rules",
	Long:  `Prints the configured mapping tables as Markdown (rendered on a terminal) or as a Mermaid diagram.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tables, err := cfg.Tables()
		if err != nil {
			return err
		}
		if err := mappings.Validate(tables); err != nil {
			return err
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			ids, _ := cmd.Flags().GetStringSlice("rule")
			fmt.Print(graph.GenerateMermaid(tables, &graph.Overlay{EnabledRules: ids}))
			return nil
		}

		md := mappings.Markdown(tables)
		if !cli.IsTerminal(os.Stdout) {
			fmt.Print(md)
			return nil
		}
		render, err := tui.NewRenderer(cli.TerminalWidth(os.Stdout))
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().Bool("mermaid", false, "Output a Mermaid flowchart instead of Markdown")
	rulesCmd.Flags().StringSliceP("rule", "r", nil, "Highlight a rule in the Mermaid output (repeatable)")
}
