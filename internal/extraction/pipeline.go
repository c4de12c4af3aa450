// Package extraction turns raw posting text into a structured jobs.Record
// through a fixed sequence of gated stages.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/logger"
)

// ErrEmptyInput is returned before any model call when there is no text to process.
var ErrEmptyInput = errors.New("job text is empty")

// Stage statuses reported in Report.
const (
	StatusRan      = "ran"
	StatusSkipped  = "skipped"
	StatusDegraded = "degraded"
)

// PromptLoader resolves prompt templates.
type PromptLoader interface {
	Load(agent, filename string) (string, error)
}

// Deps aggregates dependencies shared by all stages.
type Deps struct {
	Caller  ai.Caller
	Prompts PromptLoader
	Logger  *zap.Logger
}

// State is the data passed from stage to stage.
type State struct {
	RunID   string
	RawText string
	URL     string
	// Text is the best available cleaned text.
	Text   string
	Record *jobs.Record
}

func (s *State) notes(stage string) string {
	return fmt.Sprintf("run=%s stage=%s", s.RunID, stage)
}

// Stage is one step of the pipeline. Run errors never abort the pipeline:
// Fallback leaves State usable for the following stages instead.
type Stage interface {
	Name() string
	ShouldRun(st *State) bool
	Run(ctx context.Context, deps Deps, st *State) error
	Fallback(st *State, err error)
}

// Step describes what happened to one stage during a run.
type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report summarizes a pipeline run.
type Report struct {
	RunID string `json:"run_id"`
	Steps []Step `json:"steps"`
}

// Degraded reports whether any stage fell back.
func (r *Report) Degraded() bool {
	for _, s := range r.Steps {
		if s.Status == StatusDegraded {
			return true
		}
	}
	return false
}

// Options configure a Pipeline.
type Options struct {
	// Progress, when set, is called with each stage name before it runs.
	Progress func(stage string)
}

type Pipeline struct {
	stages   []Stage
	deps     Deps
	progress func(string)
}

// New returns the standard preclean, llm_clean, extract, review pipeline.
func New(caller ai.Caller, prompts PromptLoader, log *zap.Logger, opts Options) *Pipeline {
	return NewWithStages(DefaultStages(), Deps{Caller: caller, Prompts: prompts, Logger: logger.OrNop(log)}, opts)
}

func NewWithStages(stages []Stage, deps Deps, opts Options) *Pipeline {
	deps.Logger = logger.OrNop(deps.Logger)
	return &Pipeline{stages: stages, deps: deps, progress: opts.Progress}
}

// DefaultStages returns the stages in execution order.
func DefaultStages() []Stage {
	return []Stage{precleanStage{}, llmCleanStage{}, extractStage{}, reviewStage{}}
}

// Run processes raw posting text. It returns ErrEmptyInput when nothing is left
// to process; every other failure degrades the affected stage.
func (p *Pipeline) Run(ctx context.Context, raw, url string) (*jobs.Record, *Report, error) {
	st := &State{RunID: uuid.NewString(), RawText: raw, URL: strings.TrimSpace(url)}
	report := &Report{RunID: st.RunID}
	log := p.deps.Logger.With(zap.String(logger.FieldRunID, st.RunID))

	if strings.TrimSpace(raw) == "" {
		return nil, report, ErrEmptyInput
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		name := stage.Name()
		if !stage.ShouldRun(st) {
			log.Info("pipeline stage skipped", zap.String("name", name))
			report.Steps = append(report.Steps, Step{Name: name, Status: StatusSkipped})
			continue
		}

		if p.progress != nil {
			p.progress(name)
		}

		err := stage.Run(ctx, Deps{Caller: p.deps.Caller, Prompts: p.deps.Prompts, Logger: log}, st)
		if errors.Is(err, ErrEmptyInput) {
			return nil, report, err
		}
		if err != nil {
			log.Warn("pipeline stage degraded", zap.String("name", name), zap.Error(err))
			stage.Fallback(st, err)
			report.Steps = append(report.Steps, Step{Name: name, Status: StatusDegraded, Error: err.Error()})
			continue
		}

		log.Info("pipeline stage", zap.String("name", name))
		report.Steps = append(report.Steps, Step{Name: name, Status: StatusRan})
	}

	if st.Record == nil {
		st.Record = emptyRecord(st)
	}
	st.Record.DedupeLists()
	return st.Record, report, nil
}

func emptyRecord(st *State) *jobs.Record {
	r := jobs.NewRecord()
	r.JobText = st.Text
	r.URL = st.URL
	return r
}
