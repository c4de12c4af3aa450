package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/compose"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft application documents for a saved job",
}

var generateCoverLetterCmd = &cobra.Command{
	Use:   "cover-letter <job.json>",
	Short: "Draft a markdown cover letter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generate(cmd, compose.CoverLetter, args[0])
	},
}

var generateResumeCmd = &cobra.Command{
	Use:   "resume <job.json>",
	Short: "Draft a markdown resume tailored to the job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generate(cmd, compose.Resume, args[0])
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateCoverLetterCmd, generateResumeCmd)

	generateCmd.PersistentFlags().StringP("output", "o", "", "write the document to this file instead of stdout")
}

func generate(cmd *cobra.Command, kind compose.Kind, path string) {
	ctx := context.Background()
	a := newApplication()

	record, err := a.jobs.Load(path)
	if err != nil {
		a.logger.Fatal("loading the job", zap.Error(err))
	}

	composer := compose.New(a.gateway(ctx), a.prompts, a.logger)
	text, err := composer.Compose(ctx, kind, record, a.loadProfile())
	if err != nil {
		a.logger.Fatal("drafting the document", zap.Error(err), zap.String("kind", string(kind)))
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return
	}
	if err := os.WriteFile(output, []byte(text+"\n"), 0o644); err != nil {
		a.logger.Fatal("writing the document", zap.Error(err))
	}
	a.logger.Info("document written", zap.String("kind", string(kind)), zap.String("path", output))
}
