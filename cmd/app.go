package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/ai/gemini"
	"github.com/spigell/jobpilot/internal/ai/openai"
	"github.com/spigell/jobpilot/internal/jobs"
	"github.com/spigell/jobpilot/internal/logger"
	"github.com/spigell/jobpilot/internal/profile"
	"github.com/spigell/jobpilot/internal/prompts"
	"github.com/spigell/jobpilot/internal/secrets"
	"github.com/spigell/jobpilot/internal/settings"
)

const (
	providerOpenAI = settings.ProviderOpenAI
	providerGemini = settings.ProviderGemini

	settingsFile = "settings.json"
	usageFile    = "gpt_calls.csv"
	jobsDir      = "jobs"
)

// application holds the stores every command works with.
type application struct {
	config   *Config
	logger   *zap.Logger
	settings *settings.Store
	usage    *ai.UsageLog
	prompts  *prompts.Loader
	profiles *profile.Store
	jobs     *jobs.Store
}

func newApplication() *application {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("version", version), zap.String("data_dir", config.DataDir))

	return &application{
		config:   config,
		logger:   logger,
		settings: settings.NewStore(filepath.Join(config.DataDir, settingsFile), providerName(config.AI), logger),
		usage:    ai.NewUsageLog(filepath.Join(config.DataDir, usageFile)),
		prompts:  prompts.NewLoader(config.PromptsDir),
		profiles: profile.NewStore(config.ProfileFile),
		jobs:     jobs.NewStore(filepath.Join(config.DataDir, jobsDir)),
	}
}

// gateway builds the model gateway for the configured provider. It exits when
// no backend can be created.
func (a *application) gateway(ctx context.Context) *ai.Gateway {
	cfg := a.config.AI

	completer, provider, err := newCompleter(ctx, cfg)
	if err != nil {
		a.logger.Fatal("creating a completion backend",
			zap.Error(err),
			zap.String("hint", "set OPENAI_API_KEY / GEMINI_API_KEY or the ai.<provider>.api-key-file key in the configuration file"),
		)
	}

	gw, err := ai.NewGateway(
		completer,
		ai.NewRouter(a.settings, providerName(cfg), a.logger),
		a.usage,
		a.settings,
		ai.GatewayOptions{
			Prices:            ai.DefaultPrices().With(cfg.Pricing),
			RequestsPerMinute: cfg.RateLimit,
			MaxLogLength:      cfg.MaxLogLength,
			Provider:          provider,
		},
		a.logger,
	)
	if err != nil {
		a.logger.Fatal("creating the model gateway", zap.Error(err))
	}
	return gw
}

func newCompleter(ctx context.Context, cfg *AIConfig) (ai.Completer, string, error) {
	switch providerName(cfg) {
	case providerOpenAI:
		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
			Env:  "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, "", err
		}
		client, err := openai.New(apiKey, openai.Options{
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: cfg.OpenAI.Timeout,
		})
		return client, providerOpenAI, err
	case providerGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, "", err
		}
		client, err := gemini.New(ctx, apiKey)
		return client, providerGemini, err
	default:
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// providerName returns the normalized provider, openai when unset.
func providerName(cfg *AIConfig) string {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		return providerOpenAI
	}
	return provider
}

// loadProfile returns the stored profile or exits when it is unreadable.
func (a *application) loadProfile() *profile.Profile {
	p, err := a.profiles.Load()
	if err != nil {
		a.logger.Fatal("loading the profile", zap.Error(err), zap.String("path", a.profiles.Path()))
	}
	return p
}
