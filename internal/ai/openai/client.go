// Package openai is a completion backend speaking the OpenAI chat-completions
// wire format.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/jobpilot/internal/ai"
	"github.com/spigell/jobpilot/internal/logger"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	contentType      = "application/json"
	maxErrorBodySize = 512
)

// Client calls POST {base}/chat/completions.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Options configure a Client. A zero Timeout leaves the HTTP client default.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

func New(apiKey string, opts Options) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		http:    &http.Client{Timeout: opts.Timeout},
	}, nil
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ai.Message    `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends req and returns the first choice. A null content is returned
// as an empty string.
func (c *Client) Complete(ctx context.Context, req ai.Request) (*ai.Completion, error) {
	body := chatRequest{Model: req.Model, Messages: req.Messages}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize*4))
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, logger.TruncateForLog(string(data), maxErrorBodySize))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("openai api returned no choices")
	}

	out := &ai.Completion{}
	if content := parsed.Choices[0].Message.Content; content != nil {
		out.Text = *content
	}
	if parsed.Usage != nil {
		out.PromptTokens = parsed.Usage.PromptTokens
		out.CompletionTokens = parsed.Usage.CompletionTokens
		out.TotalTokens = parsed.Usage.TotalTokens
	}
	return out, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
}
