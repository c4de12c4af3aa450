package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List, show and export prompt templates",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompt templates per agent",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a := newApplication()
		agents, err := a.prompts.Agents()
		if err != nil {
			a.logger.Fatal("listing agents", zap.Error(err))
		}
		for _, agent := range agents {
			files, err := a.prompts.List(agent)
			if err != nil {
				a.logger.Fatal("listing prompts", zap.Error(err), zap.String("agent", agent))
			}
			for _, file := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", agent, file)
			}
		}
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <agent> <file>",
	Short: "Print the effective prompt template",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApplication()
		text, err := a.prompts.Load(args[0], args[1])
		if err != nil {
			a.logger.Fatal("loading prompt", zap.Error(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	},
}

var promptsExportCmd = &cobra.Command{
	Use:   "export <agent> <file>",
	Short: "Copy the effective template into prompts-dir for editing",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		text, err := a.prompts.Load(args[0], args[1])
		if err != nil {
			a.logger.Fatal("loading prompt", zap.Error(err))
		}
		if err := a.prompts.Save(args[0], args[1], text); err != nil {
			a.logger.Fatal("exporting prompt", zap.Error(err), zap.String("hint", "set prompts-dir in the configuration file"))
		}
		a.logger.Info("prompt exported", zap.String("agent", args[0]), zap.String("file", args[1]))
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.AddCommand(promptsListCmd, promptsShowCmd, promptsExportCmd)
}
