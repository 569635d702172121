package llmprovider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"inbox-triage/pkg/log"
)

// Manager orchestrates provider selection, fallback, retry, rate
// limiting, and response caching
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
	limiter   *rate.Limiter
	cache     *expirable.LRU[string, string]
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // Global timeout for the entire fallback chain
	RequestsPerMin  int           // Outbound request rate limit; 0 disables
	CacheTTL        time.Duration // Response cache TTL; 0 disables the cache
	CacheSize       int
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	m := &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}

	if config.RequestsPerMin > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(float64(config.RequestsPerMin)/60.0), config.RequestsPerMin)
	}

	if config.CacheTTL > 0 {
		size := config.CacheSize
		if size <= 0 {
			size = 256
		}
		m.cache = expirable.NewLRU[string, string](size, nil, config.CacheTTL)
	}

	return m
}

// GenerateContent iterates through providers in priority order with fallback logic.
// Identical requests within the cache TTL are served from the cache without
// touching the backends or consuming rate-limiter tokens.
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	key := cacheKey(req)
	if m.cache != nil {
		if text, ok := m.cache.Get(key); ok {
			m.logger.Debugf(ctx, "LLM cache hit for request %s", key[:12])
			return &Response{Text: text, ProviderName: "cache", Usage: &Usage{}}, nil
		}
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderTimeout, err)
		}
	}

	var lastErr error

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("global timeout exceeded after trying %d provider(s): %w",
				len(m.providers), ctx.Err())
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			if m.cache != nil {
				m.cache.Add(key, resp.Text)
			}
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = err

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry implements retry with linear backoff
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	var lastErr error

	attempts := m.config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * m.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			if resp.Text == "" {
				lastErr = &ProviderError{Provider: provider.Name(), Err: ErrEmptyResponse}
				continue
			}
			return resp, nil
		}

		lastErr = err
	}

	return nil, lastErr
}

func cacheKey(req *Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%.3f\x00%d", req.System, req.Prompt, req.Temperature, req.MaxTokens)
	return hex.EncodeToString(h.Sum(nil))
}

func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	m.logger.Infof(ctx, "LLM generation successful: provider=%s model=%s input_tokens=%d output_tokens=%d",
		provider.Name(), provider.Model(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
}

func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warnf(ctx, "LLM generation failed: provider=%s model=%s error=%v",
		provider.Name(), provider.Model(), err)
}
