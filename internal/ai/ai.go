// Package ai is the single entry point for language-model calls: it routes a
// task to a model, performs the call and accounts for its usage.
package ai

import "context"

// Message roles understood by every backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallOptions tune a single gateway call.
type CallOptions struct {
	// JSON asks the backend for a single JSON object.
	JSON bool
	// Notes is stored in the usage log next to the call.
	Notes string
}

// CallMeta describes a completed call.
type CallMeta struct {
	Task             string  `json:"task"`
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`
	LatencyS         float64 `json:"latency_s"`
}

// Caller performs task-routed model calls.
type Caller interface {
	Call(ctx context.Context, task string, messages []Message, opts CallOptions) (string, CallMeta, error)
}

// Request is what the gateway hands to a completion backend.
type Request struct {
	Model    string
	Messages []Message
	JSON     bool
}

// Completion is a backend response with its token usage.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completer is implemented by provider backends.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
