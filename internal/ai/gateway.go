package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/jobpilot/internal/logger"
)

const defaultMaxLogLength = 200

// ModelChooser resolves a task to a model identifier.
type ModelChooser interface {
	ChooseModel(task string) string
}

// UsageRecorder persists call records.
type UsageRecorder interface {
	Append(rec UsageRecord) error
}

// BalanceDebiter subtracts call costs from the credit balance.
type BalanceDebiter interface {
	Debit(amount float64) (float64, error)
}

// GatewayOptions configure a Gateway. Zero values are valid.
type GatewayOptions struct {
	Prices            Prices
	RequestsPerMinute int
	MaxLogLength      int
	// Provider is attached to log lines.
	Provider string
}

// Gateway performs exactly one backend call per Call and accounts for it.
// It does not retry; failures are returned to the caller.
type Gateway struct {
	completer Completer
	router    ModelChooser
	usage     UsageRecorder
	balance   BalanceDebiter
	prices    Prices
	limiter   *rate.Limiter
	logger    *zap.Logger
	maxLogLen int
	now       func() time.Time
}

func NewGateway(completer Completer, router ModelChooser, usage UsageRecorder, balance BalanceDebiter, opts GatewayOptions, log *zap.Logger) (*Gateway, error) {
	if completer == nil {
		return nil, errors.New("completion backend is required")
	}
	if router == nil {
		return nil, errors.New("model router is required")
	}

	prices := opts.Prices
	if prices == nil {
		prices = DefaultPrices()
	}

	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	log = logger.OrNop(log)
	if opts.Provider != "" {
		log = log.With(zap.String(logger.FieldProvider, opts.Provider))
	}

	return &Gateway{
		completer: completer,
		router:    router,
		usage:     usage,
		balance:   balance,
		prices:    prices,
		limiter:   limiter,
		logger:    log,
		maxLogLen: maxLogLen,
		now:       time.Now,
	}, nil
}

// Call routes task to a model, sends messages and returns the completion text
// with its usage metadata. Usage logging and balance debit failures are logged
// and do not fail the call.
func (g *Gateway) Call(ctx context.Context, task string, messages []Message, opts CallOptions) (string, CallMeta, error) {
	model := g.router.ChooseModel(task)
	meta := CallMeta{Task: task, Model: model}
	log := logger.WithCommonFields(g.logger, task, model)

	if len(messages) == 0 {
		return "", meta, errors.New("at least one message is required")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", meta, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	log.Debug("sending model request",
		zap.Int("messages", len(messages)),
		zap.Bool("json", opts.JSON),
		zap.String("prompt_preview", logger.TruncateForLog(messages[len(messages)-1].Content, g.maxLogLen)),
	)

	start := g.now()
	completion, err := g.completer.Complete(ctx, Request{Model: model, Messages: messages, JSON: opts.JSON})
	if err != nil {
		return "", meta, fmt.Errorf("%s call with model %s: %w", task, model, err)
	}
	finished := g.now()

	meta.PromptTokens = completion.PromptTokens
	meta.CompletionTokens = completion.CompletionTokens
	meta.TotalTokens = completion.TotalTokens
	if meta.TotalTokens == 0 {
		meta.TotalTokens = meta.PromptTokens + meta.CompletionTokens
	}
	meta.CostUSD = g.prices.Cost(model, meta.PromptTokens, meta.CompletionTokens)
	meta.LatencyS = round(finished.Sub(start).Seconds(), 3)

	g.account(log, meta, opts.Notes, finished)

	log.Debug("model response",
		zap.String("response_preview", logger.TruncateForLog(completion.Text, g.maxLogLen)),
	)

	return completion.Text, meta, nil
}

func (g *Gateway) account(log *zap.Logger, meta CallMeta, notes string, at time.Time) {
	fields := []zap.Field{
		zap.Int("prompt_tokens", meta.PromptTokens),
		zap.Int("completion_tokens", meta.CompletionTokens),
		zap.Int("total_tokens", meta.TotalTokens),
		zap.Float64("cost_usd", meta.CostUSD),
		zap.Float64("latency_s", meta.LatencyS),
	}

	if g.usage != nil {
		if err := g.usage.Append(UsageRecord{Time: at, Meta: meta, Notes: notes}); err != nil {
			log.Warn("usage log append failed", zap.Error(err))
		}
	}

	if g.balance != nil {
		balance, err := g.balance.Debit(meta.CostUSD)
		if err != nil {
			log.Warn("credit balance debit failed", zap.Error(err))
		} else {
			fields = append(fields, zap.Float64("balance_usd", balance))
		}
	}

	log.Info("model call", fields...)
}
