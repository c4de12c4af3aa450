// Package fetch downloads job postings with a browser-like TLS fingerprint so
// that job boards serve the same page a user would see.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/logger"
)

// MaxBodySize caps the bytes read from a posting page.
const MaxBodySize = 2 << 20

const (
	defaultTimeoutSeconds = 30
	userAgent             = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var ErrEmptyURL = errors.New("empty url")

// Doer sends a prepared request.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

type Fetcher struct {
	client Doer
	logger *zap.Logger
}

// New builds a Fetcher around a Chrome-profile tls-client.
func New(timeoutSeconds int, log *zap.Logger) (*Fetcher, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}
	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(timeoutSeconds),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return NewWithDoer(client, log), nil
}

func NewWithDoer(client Doer, log *zap.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger.OrNop(log)}
}

// Fetch returns the body of target as text.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", ErrEmptyURL
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: http %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}

	f.logger.Debug("posting fetched",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)
	return string(body), nil
}
