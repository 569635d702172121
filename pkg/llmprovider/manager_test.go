package llmprovider_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"inbox-triage/pkg/llmprovider"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type stubProvider struct {
	name  string
	text  string
	err   error
	calls atomic.Int64
}

func (s *stubProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &llmprovider.Response{
		Text:         s.text,
		ProviderName: s.name,
		ModelName:    "stub-model",
		Usage:        &llmprovider.Usage{},
	}, nil
}

func (s *stubProvider) Name() string  { return s.name }
func (s *stubProvider) Model() string { return "stub-model" }

func TestGenerateContentFallback(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("backend down")}
	secondary := &stubProvider{name: "secondary", text: "from secondary"}

	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{primary, secondary},
		&llmprovider.Config{FallbackEnabled: true, RetryAttempts: 1},
		&mockLogger{},
	)

	resp, err := mgr.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if resp.Text != "from secondary" {
		t.Errorf("Text = %q", resp.Text)
	}
	if primary.calls.Load() != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls.Load())
	}
}

func TestGenerateContentFallbackDisabled(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("backend down")}
	secondary := &stubProvider{name: "secondary", text: "unused"}

	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{primary, secondary},
		&llmprovider.Config{FallbackEnabled: false, RetryAttempts: 1},
		&mockLogger{},
	)

	_, err := mgr.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "hi"})
	if !errors.Is(err, llmprovider.ErrAllProvidersFailed) {
		t.Fatalf("error = %v, want ErrAllProvidersFailed", err)
	}
	if secondary.calls.Load() != 0 {
		t.Errorf("secondary was called with fallback disabled")
	}
}

func TestGenerateContentRetries(t *testing.T) {
	failing := &stubProvider{name: "flaky", err: errors.New("transient")}

	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{failing},
		&llmprovider.Config{RetryAttempts: 3, RetryDelay: time.Millisecond},
		&mockLogger{},
	)

	_, err := mgr.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "hi"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if failing.calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", failing.calls.Load())
	}
}

func TestGenerateContentEmptyResponseRetried(t *testing.T) {
	empty := &stubProvider{name: "empty", text: ""}

	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{empty},
		&llmprovider.Config{RetryAttempts: 2, RetryDelay: time.Millisecond},
		&mockLogger{},
	)

	_, err := mgr.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "hi"})
	if !errors.Is(err, llmprovider.ErrEmptyResponse) {
		t.Fatalf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestGenerateContentCache(t *testing.T) {
	provider := &stubProvider{name: "cached", text: "stable answer"}

	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{provider},
		&llmprovider.Config{RetryAttempts: 1, CacheTTL: time.Minute},
		&mockLogger{},
	)

	req := &llmprovider.Request{Prompt: "same prompt", Temperature: 0.2}
	for i := 0; i < 3; i++ {
		resp, err := mgr.GenerateContent(context.Background(), req)
		if err != nil {
			t.Fatalf("GenerateContent() error = %v", err)
		}
		if resp.Text != "stable answer" {
			t.Errorf("Text = %q", resp.Text)
		}
	}

	if provider.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1 (cache should serve repeats)", provider.calls.Load())
	}
}

func TestGenerateContentCacheSkipsRateLimit(t *testing.T) {
	provider := &stubProvider{name: "cached", text: "stable answer"}

	// One request per minute with burst 1: the first call consumes the
	// only token, so any further uncached call would block for ~a minute.
	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{provider},
		&llmprovider.Config{RetryAttempts: 1, CacheTTL: time.Minute, RequestsPerMin: 1},
		&mockLogger{},
	)

	req := &llmprovider.Request{Prompt: "same prompt", Temperature: 0.2}

	start := time.Now()
	var last *llmprovider.Response
	for i := 0; i < 3; i++ {
		resp, err := mgr.GenerateContent(context.Background(), req)
		if err != nil {
			t.Fatalf("GenerateContent() call %d error = %v", i, err)
		}
		last = resp
	}

	if provider.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls.Load())
	}
	if last.ProviderName != "cache" {
		t.Errorf("ProviderName = %q, want %q", last.ProviderName, "cache")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cache hits waited on the rate limiter, took %v", elapsed)
	}
}

func TestGenerateContentNoProviders(t *testing.T) {
	mgr := llmprovider.NewManager(nil, &llmprovider.Config{}, &mockLogger{})

	_, err := mgr.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "hi"})
	if !errors.Is(err, llmprovider.ErrNoProvidersConfigured) {
		t.Fatalf("error = %v, want ErrNoProvidersConfigured", err)
	}
}

func TestGenerateContentGlobalTimeout(t *testing.T) {
	slow := &stubProvider{name: "slow", err: errors.New("down")}

	mgr := llmprovider.NewManager(
		[]llmprovider.Provider{slow},
		&llmprovider.Config{
			RetryAttempts:   5,
			RetryDelay:      50 * time.Millisecond,
			MaxTotalTimeout: 20 * time.Millisecond,
		},
		&mockLogger{},
	)

	start := time.Now()
	_, err := mgr.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "hi"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}
