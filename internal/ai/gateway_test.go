package ai

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubCompleter struct {
	completion *Completion
	err        error
	requests   []Request
}

func (s *stubCompleter) Complete(_ context.Context, req Request) (*Completion, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.completion, nil
}

type fixedRouter string

func (r fixedRouter) ChooseModel(string) string { return string(r) }

type stubBalance struct {
	debits  []float64
	balance float64
	err     error
}

func (b *stubBalance) Debit(amount float64) (float64, error) {
	if b.err != nil {
		return 0, b.err
	}
	b.debits = append(b.debits, amount)
	b.balance -= amount
	return b.balance, nil
}

type failingUsage struct{}

func (failingUsage) Append(UsageRecord) error { return errors.New("disk full") }

func clock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestGatewayCallAccountsUsage(t *testing.T) {
	completer := &stubCompleter{completion: &Completion{Text: `{"ok":true}`, PromptTokens: 1000, CompletionTokens: 500}}
	usage := NewUsageLog(filepath.Join(t.TempDir(), "calls.csv"))
	balance := &stubBalance{balance: 10}
	core, observed := observer.New(zapcore.InfoLevel)

	gw, err := NewGateway(completer, fixedRouter("gpt-5-mini"), usage, balance, GatewayOptions{Provider: "openai"}, zap.New(core))
	require.NoError(t, err)
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	gw.now = clock(start, start.Add(1234567*time.Microsecond))

	text, meta, err := gw.Call(context.Background(), "extract", []Message{{Role: RoleUser, Content: "hi"}}, CallOptions{JSON: true, Notes: "test"})
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, text)

	require.Equal(t, CallMeta{
		Task:             "extract",
		Model:            "gpt-5-mini",
		PromptTokens:     1000,
		CompletionTokens: 500,
		TotalTokens:      1500,
		CostUSD:          0.00125,
		LatencyS:         1.235,
	}, meta)

	require.Len(t, completer.requests, 1)
	require.True(t, completer.requests[0].JSON)
	require.Equal(t, "gpt-5-mini", completer.requests[0].Model)

	require.Equal(t, []float64{0.00125}, balance.debits)

	totals, err := usage.Summarize()
	require.NoError(t, err)
	require.Len(t, totals, 1)
	require.Equal(t, 1, totals[0].Calls)

	entries := observed.FilterMessage("model call").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	require.Equal(t, "extract", ctx["ai_task"])
	require.Equal(t, "openai", ctx["ai_provider"])
}

func TestGatewayPropagatesBackendErrors(t *testing.T) {
	completer := &stubCompleter{err: errors.New("401 unauthorized")}
	balance := &stubBalance{balance: 10}

	gw, err := NewGateway(completer, fixedRouter("gpt-5"), nil, balance, GatewayOptions{}, nil)
	require.NoError(t, err)

	_, meta, err := gw.Call(context.Background(), "analysis", []Message{{Role: RoleUser, Content: "x"}}, CallOptions{})
	require.ErrorContains(t, err, "401 unauthorized")
	require.Equal(t, "gpt-5", meta.Model)
	require.Len(t, completer.requests, 1, "no retry")
	require.Empty(t, balance.debits)
}

func TestGatewaySideEffectFailuresDoNotFailCall(t *testing.T) {
	completer := &stubCompleter{completion: &Completion{Text: "done", PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2}}
	core, observed := observer.New(zapcore.WarnLevel)

	gw, err := NewGateway(completer, fixedRouter("gpt-5-nano"), failingUsage{}, &stubBalance{err: errors.New("locked")}, GatewayOptions{}, zap.New(core))
	require.NoError(t, err)

	text, meta, err := gw.Call(context.Background(), "summarize", []Message{{Role: RoleUser, Content: "x"}}, CallOptions{})
	require.NoError(t, err)
	require.Equal(t, "done", text)
	require.Equal(t, 2, meta.TotalTokens)
	require.Equal(t, 2, observed.Len())
}

func TestGatewayRejectsEmptyMessages(t *testing.T) {
	completer := &stubCompleter{}
	gw, err := NewGateway(completer, fixedRouter("m"), nil, nil, GatewayOptions{}, nil)
	require.NoError(t, err)

	_, _, err = gw.Call(context.Background(), "extract", nil, CallOptions{})
	require.Error(t, err)
	require.Empty(t, completer.requests)
}

func TestNewGatewayValidation(t *testing.T) {
	_, err := NewGateway(nil, fixedRouter("m"), nil, nil, GatewayOptions{}, nil)
	require.Error(t, err)
	_, err = NewGateway(&stubCompleter{}, nil, nil, nil, GatewayOptions{}, nil)
	require.Error(t, err)
}
