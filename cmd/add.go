package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/extraction"
	"github.com/spigell/jobpilot/internal/fetch"
	"github.com/spigell/jobpilot/internal/fit"
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/jsonfile"
)

const (
	PromptSave    = "Save"
	PromptDiscard = "Discard"
	PromptDump    = "Dump job to file"
)

var errDiscarded = errors.New("discarded")

var savePrompt = promptui.Select{
	Label: "Save this job?",
	Items: []string{PromptSave, PromptDiscard, PromptDump},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Extract a job posting, score it against the profile and save it",
	Long: `Extract a job posting from a URL, a file or stdin.

The posting is cleaned, extracted into a structured record, reviewed when
the extraction looks thin and scored against the profile.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		add(cmd)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("url", "u", "", "fetch the posting from this URL")
	addCmd.Flags().StringP("file", "f", "", "read the posting from this file")
	addCmd.Flags().BoolP("yes", "y", false, "save without asking for confirmation")
	addCmd.Flags().Bool("no-score", false, "do not score the job against the profile")
	addCmd.MarkFlagsMutuallyExclusive("url", "file")
}

func add(cmd *cobra.Command) {
	ctx := context.Background()
	a := newApplication()
	logger := a.logger

	url, _ := cmd.Flags().GetString("url")
	raw, err := readPosting(ctx, cmd, a)
	if err != nil {
		logger.Fatal("reading the posting", zap.Error(err))
	}

	gw := a.gateway(ctx)
	pipeline := extraction.New(gw, a.prompts, logger, extraction.Options{
		Progress: func(stage string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "-> %s\n", stage)
		},
	})

	record, report, err := pipeline.Run(ctx, raw, url)
	if errors.Is(err, extraction.ErrEmptyInput) {
		logger.Fatal("exiting", zap.String("reason", "the posting has no text"))
	}
	if err != nil {
		logger.Fatal("extracting the job", zap.Error(err))
	}
	if report.Degraded() {
		logger.Warn("extraction finished with degraded stages", zap.Any("steps", report.Steps))
	}

	if noScore, _ := cmd.Flags().GetBool("no-score"); !noScore {
		scoreRecord(ctx, a, gw, record)
	}

	pretty, _ := json.MarshalIndent(record, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	autoApprove, _ := cmd.Flags().GetBool("yes")
	for {
		action := PromptSave
		if !autoApprove {
			_, action, err = savePrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		done, err := handleSaveAction(action, a, record)
		if errors.Is(err, errDiscarded) {
			logger.Info("exiting", zap.String("reason", "job discarded"))
			return
		}
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if done {
			return
		}
	}
}

func handleSaveAction(action string, a *application, record *jobs.Record) (bool, error) {
	switch action {
	case PromptSave:
		path, err := a.jobs.Save(record)
		if err != nil {
			return false, fmt.Errorf("save job: %w", err)
		}
		a.logger.Info("job saved", zap.String("path", path))
		return true, nil
	case PromptDiscard:
		return false, errDiscarded
	case PromptDump:
		filename, err := dumpToTmpFile(record)
		if err != nil {
			return false, fmt.Errorf("dump job to file: %w", err)
		}
		a.logger.Info("dumping job to file", zap.String("filename", filename))
		return false, nil
	default:
		return false, fmt.Errorf("invalid action: %s", action)
	}
}

func scoreRecord(ctx context.Context, a *application, gw ai.Caller, record *jobs.Record) {
	if !a.profiles.Exists() {
		a.logger.Warn("skipping fit scoring", zap.String("reason", "no profile"), zap.String("path", a.profiles.Path()))
		return
	}
	scorer := fit.NewScorer(gw, a.prompts, a.config.Scoring, a.logger)
	record.Match = scorer.ScoreFit(ctx, record, a.loadProfile(), nil)
}

func readPosting(ctx context.Context, cmd *cobra.Command, a *application) (string, error) {
	url, _ := cmd.Flags().GetString("url")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case strings.TrimSpace(url) != "":
		fetcher, err := fetch.New(a.config.Fetch.TimeoutSeconds, a.logger)
		if err != nil {
			return "", err
		}
		return fetcher.Fetch(ctx, url)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), "Paste the job posting, then press Ctrl-D:")
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func dumpToTmpFile(record *jobs.Record) (string, error) {
	f, err := os.CreateTemp("", app+"-job-*.json")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := jsonfile.Write(name, record); err != nil {
		return "", err
	}
	return name, nil
}
