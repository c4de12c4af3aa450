package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/llmjson"
	"github.com/spigell/jobpilot/internal/textclean"
)

const (
	StagePreclean = "preclean"
	StageLLMClean = "llm_clean"
	StageExtract  = "extract"
	StageReview   = "review"

	taskClean   = "summarize"
	taskExtract = "extract"
	taskReview  = "review"

	promptsAgent    = "job_extraction_agent"
	cleanerPrompt   = "cleaner_prompt.txt"
	extractorPrompt = "job_extractor_prompt.txt"
	reviewerPrompt  = "reviewer_prompt.txt"
)

type precleanStage struct{}

func (precleanStage) Name() string           { return StagePreclean }
func (precleanStage) ShouldRun(*State) bool  { return true }
func (precleanStage) Fallback(*State, error) {}

func (precleanStage) Run(_ context.Context, _ Deps, st *State) error {
	st.Text = textclean.Clean(st.RawText)
	if st.Text == "" {
		return ErrEmptyInput
	}
	return nil
}

// llmCleanStage asks a model to strip leftovers the markup pass could not
// recognise. On failure the precleaned text is kept.
type llmCleanStage struct{}

func (llmCleanStage) Name() string { return StageLLMClean }

func (llmCleanStage) ShouldRun(st *State) bool {
	return !textclean.LooksCleanEnough(st.Text)
}

func (llmCleanStage) Fallback(*State, error) {}

func (llmCleanStage) Run(ctx context.Context, deps Deps, st *State) error {
	tmpl, err := deps.Prompts.Load(promptsAgent, cleanerPrompt)
	if err != nil {
		return err
	}
	prompt := strings.ReplaceAll(tmpl, "{raw_text}", st.Text)

	text, _, err := deps.Caller.Call(ctx, taskClean, userMessage(prompt), ai.CallOptions{Notes: st.notes(StageLLMClean)})
	if err != nil {
		return err
	}

	cleaned := textclean.Clean(text)
	if cleaned == "" {
		return errors.New("model returned empty text")
	}
	st.Text = cleaned
	return nil
}

// extractStage turns the cleaned text into a record. On failure the record is
// empty apart from the posting text and URL.
type extractStage struct{}

func (extractStage) Name() string          { return StageExtract }
func (extractStage) ShouldRun(*State) bool { return true }

func (extractStage) Fallback(st *State, _ error) {
	st.Record = emptyRecord(st)
}

func (extractStage) Run(ctx context.Context, deps Deps, st *State) error {
	tmpl, err := deps.Prompts.Load(promptsAgent, extractorPrompt)
	if err != nil {
		return err
	}
	prompt := strings.NewReplacer("{clean_text}", st.Text, "{job_url}", st.URL).Replace(tmpl)

	text, _, err := deps.Caller.Call(ctx, taskExtract, userMessage(prompt), ai.CallOptions{JSON: true, Notes: st.notes(StageExtract)})
	if err != nil {
		return err
	}

	raw, err := llmjson.ParseObject(text)
	if err != nil {
		return err
	}
	record, err := jobs.DecodeRecord(raw)
	if err != nil {
		return err
	}

	if record.JobText == "" {
		record.JobText = st.Text
	}
	if record.URL == "" {
		record.URL = st.URL
	}
	st.Record = record
	return nil
}

// reviewStage re-reads the posting when the record looks incomplete and merges
// in what was missed. It only ever adds information.
type reviewStage struct{}

func (reviewStage) Name() string { return StageReview }

func (reviewStage) ShouldRun(st *State) bool {
	return jobs.NeedsReview(st.Record)
}

func (reviewStage) Fallback(st *State, err error) {
	if st.Record == nil {
		st.Record = emptyRecord(st)
	}
	st.Record.ReviewNotes = &jobs.ReviewNotes{Error: err.Error()}
}

func (reviewStage) Run(ctx context.Context, deps Deps, st *State) error {
	if st.Record == nil {
		st.Record = emptyRecord(st)
	}

	tmpl, err := deps.Prompts.Load(promptsAgent, reviewerPrompt)
	if err != nil {
		return err
	}

	current := *st.Record
	current.JobText = ""
	current.Match = nil
	current.ReviewNotes = nil
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return err
	}
	prompt := strings.NewReplacer("{clean_text}", st.Text, "{current_json}", string(currentJSON)).Replace(tmpl)

	text, _, err := deps.Caller.Call(ctx, taskReview, userMessage(prompt), ai.CallOptions{JSON: true, Notes: st.notes(StageReview)})
	if err != nil {
		return err
	}

	raw, err := llmjson.ParseObject(text)
	if err != nil {
		return err
	}
	patch, err := jobs.DecodeRecord(raw)
	if err != nil {
		return err
	}

	st.Record.MergePatch(patch)
	return nil
}

func userMessage(content string) []ai.Message {
	return []ai.Message{{Role: ai.RoleUser, Content: content}}
}
