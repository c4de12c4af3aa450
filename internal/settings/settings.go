// Package settings persists user-editable runtime settings: developer mode,
// per-task model preferences and the credit balance.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/jsonfile"
	"github.com/spigell/jobpilot/internal/logger"
)

const (
	keyDeveloperMode   = "developer_mode"
	keyPreferredModels = "preferred_models"
	keyCreditBalance   = "credit_balance"

	// DefaultCreditBalance is the balance of a fresh settings file, in USD.
	DefaultCreditBalance = 10.0
)

// Settings is the decoded settings document.
type Settings struct {
	DeveloperMode   bool              `mapstructure:"developer_mode"`
	PreferredModels map[string]string `mapstructure:"preferred_models"`
	CreditBalance   float64           `mapstructure:"credit_balance"`

	// extra holds keys this version does not know about.
	extra map[string]any
}

// Completion providers with their own default model set.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ModelSet names the models a provider routes to when nothing is configured.
type ModelSet struct {
	// Default serves extraction and cleanup tasks.
	Default string
	// Strong serves analysis and document drafting.
	Strong string
	// Cheap serves developer mode and normalization.
	Cheap string
}

var providerModels = map[string]ModelSet{
	ProviderOpenAI: {Default: "gpt-5-mini", Strong: "gpt-5-mini", Cheap: "gpt-5-nano"},
	ProviderGemini: {Default: "gemini-2.5-flash", Strong: "gemini-2.5-pro", Cheap: "gemini-2.5-flash-lite"},
}

// Models returns the model set of provider. Unknown or empty providers get
// the OpenAI set.
func Models(provider string) ModelSet {
	if set, ok := providerModels[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return set
	}
	return providerModels[ProviderOpenAI]
}

// Defaults returns the settings used when the file or a key is missing, for
// the OpenAI provider.
func Defaults() *Settings {
	return DefaultsFor(ProviderOpenAI)
}

// DefaultsFor is Defaults for the given provider.
func DefaultsFor(provider string) *Settings {
	m := Models(provider)
	return &Settings{
		DeveloperMode: false,
		PreferredModels: map[string]string{
			"extract":              m.Default,
			"summarize":            m.Default,
			"review":               m.Default,
			"review_extracted_job": m.Default,
			"cover_letter":         m.Strong,
			"resume":               m.Strong,
			"analysis":             m.Strong,
			"skill_match":          m.Strong,
			"cheap_fallback":       m.Cheap,
			"analysis_mini":        m.Cheap,
			"clean_job_text":       m.Cheap,
		},
		CreditBalance: DefaultCreditBalance,
	}
}

// Tasks returns the configured task names in sorted order.
func (s *Settings) Tasks() []string {
	tasks := make([]string, 0, len(s.PreferredModels))
	for task := range s.PreferredModels {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	return tasks
}

func (s *Settings) document() map[string]any {
	doc := make(map[string]any, len(s.extra)+3)
	for k, v := range s.extra {
		doc[k] = v
	}
	doc[keyDeveloperMode] = s.DeveloperMode
	doc[keyPreferredModels] = s.PreferredModels
	doc[keyCreditBalance] = s.CreditBalance
	return doc
}

// Validate reports type problems in a raw settings document.
func Validate(raw map[string]any) []string {
	var problems []string
	if v, ok := raw[keyDeveloperMode]; ok {
		if _, isBool := v.(bool); !isBool {
			problems = append(problems, "developer_mode must be a boolean")
		}
	}
	if v, ok := raw[keyCreditBalance]; ok {
		if _, isNumber := v.(float64); !isNumber {
			problems = append(problems, "credit_balance must be a number")
		}
	}
	if v, ok := raw[keyPreferredModels]; ok {
		models, isObject := v.(map[string]any)
		if !isObject {
			problems = append(problems, "preferred_models must be an object")
		}
		keys := make([]string, 0, len(models))
		for task := range models {
			keys = append(keys, task)
		}
		sort.Strings(keys)
		for _, task := range keys {
			if _, isString := models[task].(string); !isString {
				problems = append(problems, fmt.Sprintf("preferred_models.%s must be a string", task))
			}
		}
	}
	return problems
}

// Store reads and writes the settings file. Mutations through Update and Debit
// are serialized within the process and across processes via a lock file.
type Store struct {
	path     string
	provider string
	mu       sync.Mutex
	lock     *flock.Flock
	logger   *zap.Logger
}

// NewStore returns a Store whose defaults follow provider.
func NewStore(path, provider string, log *zap.Logger) *Store {
	return &Store{
		path:     path,
		provider: provider,
		lock:     flock.New(path + ".lock"),
		logger:   logger.OrNop(log),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored settings merged over Defaults. Merging is shallow: a
// stored preferred_models object replaces the default one. A missing file is
// created with the defaults.
func (s *Store) Load() (*Settings, error) {
	var raw map[string]any
	err := jsonfile.Read(s.path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultsFor(s.provider)
		if err := s.Save(defaults); err != nil {
			return nil, err
		}
		s.logger.Info("created default settings", zap.String("path", s.path))
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if problems := Validate(raw); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings %q: %v", s.path, problems)
	}

	merged := DefaultsFor(s.provider).document()
	for k, v := range raw {
		merged[k] = v
	}

	out := &Settings{}
	if err := mapstructure.Decode(merged, out); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	out.extra = make(map[string]any)
	for k, v := range raw {
		switch k {
		case keyDeveloperMode, keyPreferredModels, keyCreditBalance:
		default:
			out.extra[k] = v
		}
	}
	return out, nil
}

// Save writes settings, keeping unknown keys loaded earlier.
func (s *Store) Save(settings *Settings) error {
	if err := jsonfile.Write(s.path, settings.document()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Update loads settings, applies fn and saves the result while holding the
// settings lock. Nothing is written when fn fails.
func (s *Store) Update(fn func(*Settings) error) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock settings: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("unlock settings", zap.Error(err))
		}
	}()

	current, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	if err := s.Save(current); err != nil {
		return nil, err
	}
	return current, nil
}

// Debit subtracts amount from the credit balance, flooring it at zero, and
// returns the new balance.
func (s *Store) Debit(amount float64) (float64, error) {
	updated, err := s.Update(func(st *Settings) error {
		st.CreditBalance = math.Max(0, roundMicros(st.CreditBalance-amount))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated.CreditBalance, nil
}

// roundMicros rounds to millionths of a dollar, the precision of call costs.
func roundMicros(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// SetDeveloperMode toggles developer mode.
func (s *Store) SetDeveloperMode(enabled bool) error {
	_, err := s.Update(func(st *Settings) error {
		st.DeveloperMode = enabled
		return nil
	})
	return err
}

// SetModel sets the preferred model of a task.
func (s *Store) SetModel(task, model string) error {
	if task == "" || model == "" {
		return errors.New("task and model must not be empty")
	}
	_, err := s.Update(func(st *Settings) error {
		if st.PreferredModels == nil {
			st.PreferredModels = map[string]string{}
		}
		st.PreferredModels[task] = model
		return nil
	})
	return err
}

// SetBalance overwrites the credit balance.
func (s *Store) SetBalance(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("balance must not be negative, got %v", amount)
	}
	_, err := s.Update(func(st *Settings) error {
		st.CreditBalance = amount
		return nil
	})
	return err
}
