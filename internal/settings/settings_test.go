package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "settings.json"), ProviderOpenAI, nil)
}

func TestLoadCreatesDefaults(t *testing.T) {
	store := newTestStore(t)

	s, err := store.Load()
	require.NoError(t, err)
	require.False(t, s.DeveloperMode)
	require.Equal(t, DefaultCreditBalance, s.CreditBalance)
	require.Equal(t, "gpt-5-nano", s.PreferredModels["cheap_fallback"])
	require.FileExists(t, store.Path())
}

func TestLoadCreatesProviderDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"), "Gemini", nil)

	s, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-flash", s.PreferredModels["extract"])
	require.Equal(t, "gemini-2.5-pro", s.PreferredModels["analysis"])
	require.Equal(t, "gemini-2.5-flash-lite", s.PreferredModels["cheap_fallback"])
	for task, model := range s.PreferredModels {
		require.NotContains(t, model, "gpt", "task %s", task)
	}
}

func TestModelsUnknownProviderUsesOpenAI(t *testing.T) {
	require.Equal(t, Models(ProviderOpenAI), Models(""))
	require.Equal(t, Models(ProviderOpenAI), Models("anthropic"))
	require.Equal(t, "gemini-2.5-pro", Models(" GEMINI ").Strong)
}

func TestLoadMergesAndPreservesUnknownKeys(t *testing.T) {
	store := newTestStore(t)
	doc := `{"developer_mode": true, "theme": "dark", "preferred_models": {"extract": "gpt-5"}}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(doc), 0o644))

	s, err := store.Load()
	require.NoError(t, err)
	require.True(t, s.DeveloperMode)
	require.Equal(t, DefaultCreditBalance, s.CreditBalance, "missing key falls back to default")
	require.Equal(t, map[string]string{"extract": "gpt-5"}, s.PreferredModels)

	require.NoError(t, store.Save(s))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "dark", raw["theme"])
	require.Equal(t, 10.0, raw["credit_balance"])
}

func TestLoadRejectsWrongTypes(t *testing.T) {
	store := newTestStore(t)
	doc := `{"developer_mode": "yes", "credit_balance": "10", "preferred_models": {"extract": 5}}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(doc), 0o644))

	_, err := store.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "developer_mode must be a boolean")
	require.Contains(t, err.Error(), "credit_balance must be a number")
	require.Contains(t, err.Error(), "preferred_models.extract must be a string")
}

func TestDebitFloorsAtZero(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetBalance(1))

	balance, err := store.Debit(0.25)
	require.NoError(t, err)
	require.InDelta(t, 0.75, balance, 1e-9)

	balance, err = store.Debit(5)
	require.NoError(t, err)
	require.Equal(t, 0.0, balance)

	s, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 0.0, s.CreditBalance)
}

func TestConcurrentDebitsAreNotLost(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetBalance(10))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Debit(0.1); err != nil {
				t.Errorf("debit: %v", err)
			}
		}()
	}
	wg.Wait()

	s, err := store.Load()
	require.NoError(t, err)
	require.InDelta(t, 8.0, s.CreditBalance, 1e-9)
}

func TestSetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetDeveloperMode(true))
	require.NoError(t, store.SetModel("analysis", "gpt-5"))
	require.Error(t, store.SetModel("", "gpt-5"))
	require.Error(t, store.SetBalance(-1))

	s, err := store.Load()
	require.NoError(t, err)
	require.True(t, s.DeveloperMode)
	require.Equal(t, "gpt-5", s.PreferredModels["analysis"])
	require.Contains(t, s.Tasks(), "analysis")
}
