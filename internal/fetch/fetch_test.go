package fetch

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
)

type stubDoer struct {
	status int
	body   string
	err    error
	req    *fhttp.Request
}

func (s *stubDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &fhttp.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
	}, nil
}

func TestFetchReturnsBody(t *testing.T) {
	doer := &stubDoer{status: 200, body: "<html><body>Go developer</body></html>"}
	f := NewWithDoer(doer, nil)

	got, err := f.Fetch(context.Background(), " https://jobs.example.com/1 ")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != doer.body {
		t.Fatalf("Fetch() = %q", got)
	}
	if doer.req.URL.String() != "https://jobs.example.com/1" {
		t.Fatalf("unexpected url %s", doer.req.URL)
	}
	if doer.req.Header.Get("User-Agent") == "" {
		t.Fatalf("expected a user agent header")
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		doer *stubDoer
		want string
	}{
		{name: "http error", url: "https://x.example/a", doer: &stubDoer{status: 404}, want: "http 404"},
		{name: "transport error", url: "https://x.example/a", doer: &stubDoer{err: errors.New("reset")}, want: "reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithDoer(tt.doer, nil).Fetch(context.Background(), tt.url)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Fetch() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestFetchEmptyURL(t *testing.T) {
	doer := &stubDoer{}
	_, err := NewWithDoer(doer, nil).Fetch(context.Background(), "  ")
	if !errors.Is(err, ErrEmptyURL) {
		t.Fatalf("error = %v, want ErrEmptyURL", err)
	}
	if doer.req != nil {
		t.Fatalf("expected no request")
	}
}

func TestFetchCapsBody(t *testing.T) {
	doer := &stubDoer{status: 200, body: strings.Repeat("a", MaxBodySize+100)}

	got, err := NewWithDoer(doer, nil).Fetch(context.Background(), "https://x.example/big")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != MaxBodySize {
		t.Fatalf("len = %d, want %d", len(got), MaxBodySize)
	}
}
