package profile

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/llmjson"
	"github.com/spigell/jobpilot/internal/logger"
)

// Kind selects which profile list a normalization request targets.
type Kind string

const (
	KindSkills         Kind = "skills"
	KindQualifications Kind = "qualifications"

	normalizeTask = "cheap_fallback"
	promptsAgent  = "profile_agent"
	skillsPrompt  = "skill_normalizer_prompt.txt"
	qualsPrompt   = "qualification_normalizer_prompt.txt"
)

// PromptLoader resolves prompt templates.
type PromptLoader interface {
	Load(agent, filename string) (string, error)
}

// Normalizer cleans up candidate entries with a cheap model before they are
// merged into the profile.
type Normalizer struct {
	caller  ai.Caller
	prompts PromptLoader
	logger  *zap.Logger
}

func NewNormalizer(caller ai.Caller, prompts PromptLoader, log *zap.Logger) *Normalizer {
	return &Normalizer{caller: caller, prompts: prompts, logger: logger.OrNop(log)}
}

type normalized struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
}

// Normalize returns cleaned-up entries for candidates. When the model call or
// its output fails, the trimmed candidates are returned instead.
func (n *Normalizer) Normalize(ctx context.Context, kind Kind, candidates []string) []string {
	fallback := trimmed(candidates)
	if len(fallback) == 0 {
		return fallback
	}

	out, err := n.normalize(ctx, kind, fallback)
	if err != nil {
		n.logger.Warn("profile normalization failed, using raw entries",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return fallback
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (n *Normalizer) normalize(ctx context.Context, kind Kind, candidates []string) ([]string, error) {
	file := skillsPrompt
	if kind == KindQualifications {
		file = qualsPrompt
	}
	system, err := n.prompts.Load(promptsAgent, file)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{"candidates": candidates})
	if err != nil {
		return nil, err
	}

	text, _, err := n.caller.Call(ctx, normalizeTask, []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: string(payload)},
	}, ai.CallOptions{JSON: true, Notes: "profile " + string(kind)})
	if err != nil {
		return nil, err
	}

	var resp map[string][]normalized
	if err := llmjson.Decode(text, &resp); err != nil {
		return nil, err
	}

	var out []string
	for _, item := range resp[string(kind)] {
		if value := strings.TrimSpace(item.Normalized); value != "" {
			out = append(out, value)
		}
	}
	return out, nil
}

func trimmed(items []string) []string {
	out := []string{}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
