package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spigell/jobpilot/internal/ai"
)

func TestCompleteSendsWireFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"a\":1}"}}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
	}))
	defer srv.Close()

	client, err := New(" sk-test ", Options{BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	out, err := client.Complete(context.Background(), ai.Request{
		Model:    "gpt-5-mini",
		Messages: []ai.Message{{Role: ai.RoleSystem, Content: "sys"}, {Role: ai.RoleUser, Content: "hello"}},
		JSON:     true,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if out.Text != `{"a":1}` || out.PromptTokens != 12 || out.CompletionTokens != 3 || out.TotalTokens != 15 {
		t.Fatalf("unexpected completion %+v", out)
	}

	if got["model"] != "gpt-5-mini" {
		t.Fatalf("unexpected model %v", got["model"])
	}
	format, ok := got["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Fatalf("expected json response format, got %v", got["response_format"])
	}
	messages := got["messages"].([]any)
	if len(messages) != 2 || messages[1].(map[string]any)["content"] != "hello" {
		t.Fatalf("unexpected messages %v", messages)
	}
}

func TestCompleteWithoutJSONModeAndNullContent(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		raw = string(body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null}}]}`))
	}))
	defer srv.Close()

	client, err := New("key", Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	out, err := client.Complete(context.Background(), ai.Request{Model: "m", Messages: []ai.Message{{Role: ai.RoleUser, Content: "x"}}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Text != "" || out.TotalTokens != 0 {
		t.Fatalf("unexpected completion %+v", out)
	}
	if strings.Contains(raw, "response_format") {
		t.Fatalf("response_format must be omitted: %s", raw)
	}
}

func TestCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer bad":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
		default:
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}
	}))
	defer srv.Close()

	bad, _ := New("bad", Options{BaseURL: srv.URL})
	_, err := bad.Complete(context.Background(), ai.Request{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected auth error, got %v", err)
	}

	empty, _ := New("good", Options{BaseURL: srv.URL})
	if _, err := empty.Complete(context.Background(), ai.Request{Model: "m"}); err == nil {
		t.Fatalf("expected error for empty choices")
	}

	if _, err := New("  ", Options{}); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
