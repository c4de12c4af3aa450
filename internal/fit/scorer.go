// Package fit compares a job record with the candidate profile. A model fills
// in the matched and missing details; the scores are then recomputed locally
// from those details.
package fit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/llmjson"
	"github.com/spigell/jobpilot/internal/logger"
	"github.com/spigell/jobpilot/internal/profile"
)

const (
	task         = "analysis"
	promptsAgent = "skill_matching_agent"
	promptFile   = "skill_match_prompt.txt"

	jsonRules = "\n\nRULES: Return ONLY a single valid JSON object. Do not wrap in code fences. No extra text."
)

// PromptLoader resolves prompt templates.
type PromptLoader interface {
	Load(agent, filename string) (string, error)
}

type Scorer struct {
	caller  ai.Caller
	prompts PromptLoader
	weights Weights
	logger  *zap.Logger
}

// NewScorer returns a Scorer using weights unless a call overrides them.
func NewScorer(caller ai.Caller, prompts PromptLoader, weights Weights, log *zap.Logger) *Scorer {
	return &Scorer{caller: caller, prompts: prompts, weights: weights, logger: logger.OrNop(log)}
}

// ScoreFit never fails: when the model call or its output is unusable the
// result holds defaults, and the scores are computed from whatever details
// are available.
func (s *Scorer) ScoreFit(ctx context.Context, job *jobs.Record, p *profile.Profile, weights *Weights) *jobs.MatchResult {
	w := s.weights
	if weights != nil {
		w = *weights
	}
	log := s.logger.With(zap.String("job_title", job.JobTitle), zap.String("company", job.Company))

	m, err := s.assess(ctx, job, p, w)
	if err != nil {
		log.Warn("fit assessment failed, using defaults", zap.Error(err))
		m = jobs.EmptyMatch()
	}

	applySectionScores(m)
	m.Scores = ComputeScores(m, w)

	log.Info("fit scored",
		zap.Float64("skill_score", m.Scores.SkillScore),
		zap.Float64("preference_score", m.Scores.PreferenceScore),
		zap.Float64("overall_score", m.Scores.OverallScore),
	)
	return m
}

func (s *Scorer) assess(ctx context.Context, job *jobs.Record, p *profile.Profile, w Weights) (*jobs.MatchResult, error) {
	system, err := s.prompts.Load(promptsAgent, promptFile)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(BuildPayload(job, p, w))
	if err != nil {
		return nil, fmt.Errorf("encode fit payload: %w", err)
	}

	text, _, err := s.caller.Call(ctx, task, []ai.Message{
		{Role: ai.RoleSystem, Content: system + jsonRules},
		{Role: ai.RoleUser, Content: string(payload)},
	}, ai.CallOptions{JSON: true, Notes: "fit " + job.JobTitle})
	if err != nil {
		return nil, err
	}

	raw, err := llmjson.ParseObject(text)
	if err != nil {
		return nil, err
	}
	return jobs.DecodeMatch(raw)
}

// applySectionScores replaces model-provided section scores with the matched
// ratio of each non-empty section.
func applySectionScores(m *jobs.MatchResult) {
	for _, section := range []*jobs.SectionFit{
		&m.Fit.Skills.Required,
		&m.Fit.Skills.NiceToHave,
		&m.Fit.Qualifications,
	} {
		if ratio, ok := SectionRatio(*section); ok {
			section.Score = round1(maxScore * ratio)
		} else {
			section.Score = 0
		}
	}
}
