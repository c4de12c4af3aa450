package ai

import (
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/logger"
	"github.com/spigell/jobpilot/internal/settings"
)

const (
	cheapTask    = "cheap_fallback"
	fallbackTask = "summarize"
)

// SettingsSource provides the current settings.
type SettingsSource interface {
	Load() (*settings.Settings, error)
}

// Router maps a task name to a model identifier.
type Router struct {
	settings SettingsSource
	provider string
	models   settings.ModelSet
	logger   *zap.Logger
}

// NewRouter returns a Router whose hardcoded fallbacks belong to provider.
func NewRouter(source SettingsSource, provider string, log *zap.Logger) *Router {
	return &Router{
		settings: source,
		provider: provider,
		models:   settings.Models(provider),
		logger:   logger.OrNop(log),
	}
}

// ChooseModel picks the model for task. Settings are read on every call so
// edits apply immediately; unreadable settings fall back to the defaults.
func (r *Router) ChooseModel(task string) string {
	s, err := r.settings.Load()
	if err != nil {
		r.logger.Warn("settings unavailable, routing with defaults", zap.Error(err))
		s = settings.DefaultsFor(r.provider)
	}

	models := s.PreferredModels
	if s.DeveloperMode {
		if model := models[cheapTask]; model != "" {
			return model
		}
		return r.models.Cheap
	}

	if model := models[task]; model != "" {
		return model
	}
	if model := models[fallbackTask]; model != "" {
		return model
	}
	return r.models.Default
}
