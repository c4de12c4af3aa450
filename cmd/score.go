package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/fit"
)

var scoreCmd = &cobra.Command{
	Use:   "score <job.json>",
	Short: "Score a saved job against the profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolP("write", "w", false, "store the result in the job file")
}

func score(cmd *cobra.Command, path string) {
	ctx := context.Background()
	a := newApplication()

	record, err := a.jobs.Load(path)
	if err != nil {
		a.logger.Fatal("loading the job", zap.Error(err))
	}
	if !a.profiles.Exists() {
		a.logger.Fatal("profile not found", zap.String("path", a.profiles.Path()))
	}

	scorer := fit.NewScorer(a.gateway(ctx), a.prompts, a.config.Scoring, a.logger)
	match := scorer.ScoreFit(ctx, record, a.loadProfile(), nil)

	pretty, _ := json.MarshalIndent(match, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	if write, _ := cmd.Flags().GetBool("write"); write {
		record.Match = match
		if err := a.jobs.Overwrite(path, record); err != nil {
			a.logger.Fatal("writing the job", zap.Error(err))
		}
		a.logger.Info("job updated", zap.String("path", path))
	}
}
