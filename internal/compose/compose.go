// Package compose drafts application documents for a saved job.
package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/logger"
	"github.com/spigell/jobpilot/internal/profile"
)

// Kind names a document type.
type Kind string

const (
	CoverLetter Kind = "cover_letter"
	Resume      Kind = "resume"
)

type document struct {
	task   string
	agent  string
	prompt string
}

var documents = map[Kind]document{
	CoverLetter: {task: "cover_letter", agent: "cover_letter_agent", prompt: "cover_letter_prompt.txt"},
	Resume:      {task: "resume", agent: "resume_agent", prompt: "resume_prompt.txt"},
}

var (
	ErrEmptyDocument = errors.New("model returned an empty document")

	markdownFence = regexp.MustCompile("(?i)^```(?:markdown|md)?\\s*|\\s*```$")
)

// PromptLoader resolves prompt templates.
type PromptLoader interface {
	Load(agent, filename string) (string, error)
}

type Composer struct {
	caller  ai.Caller
	prompts PromptLoader
	logger  *zap.Logger
}

func New(caller ai.Caller, prompts PromptLoader, log *zap.Logger) *Composer {
	return &Composer{caller: caller, prompts: prompts, logger: logger.OrNop(log)}
}

type constraints struct {
	Format      string                   `json:"format"`
	CompanyName string                   `json:"company_name"`
	JobTitle    string                   `json:"job_title"`
	Hints       *jobs.DocRecommendations `json:"hints,omitempty"`
}

type payload struct {
	Job         *jobs.Record   `json:"job"`
	Candidate   map[string]any `json:"candidate"`
	Constraints constraints    `json:"constraints"`
}

func (c *Composer) CoverLetter(ctx context.Context, job *jobs.Record, p *profile.Profile) (string, error) {
	return c.Compose(ctx, CoverLetter, job, p)
}

func (c *Composer) Resume(ctx context.Context, job *jobs.Record, p *profile.Profile) (string, error) {
	return c.Compose(ctx, Resume, job, p)
}

// Compose drafts a markdown document of the given kind.
func (c *Composer) Compose(ctx context.Context, kind Kind, job *jobs.Record, p *profile.Profile) (string, error) {
	doc, ok := documents[kind]
	if !ok {
		return "", fmt.Errorf("unknown document kind %q", kind)
	}

	system, err := c.prompts.Load(doc.agent, doc.prompt)
	if err != nil {
		return "", err
	}

	in := payload{
		Job:       job,
		Candidate: p.Document(),
		Constraints: constraints{
			Format:      "markdown",
			CompanyName: job.Company,
			JobTitle:    job.JobTitle,
		},
	}
	if job.Match != nil {
		in.Constraints.Hints = &job.Match.DocRecommendations
	}
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", kind, err)
	}

	text, meta, err := c.caller.Call(ctx, doc.task, []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: string(data)},
	}, ai.CallOptions{Notes: string(kind) + " " + job.JobTitle})
	if err != nil {
		return "", fmt.Errorf("compose %s: %w", kind, err)
	}

	text = strings.TrimSpace(markdownFence.ReplaceAllString(strings.TrimSpace(text), ""))
	if text == "" {
		return "", ErrEmptyDocument
	}

	c.logger.Info("document composed",
		zap.String("kind", string(kind)),
		zap.String("model", meta.Model),
		zap.Int("length", len(text)),
	)
	return text, nil
}
