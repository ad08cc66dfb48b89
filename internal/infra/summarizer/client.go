package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"medsum/internal/domain/entity"
	"medsum/internal/observability/logging"
	"medsum/internal/resilience/circuitbreaker"
	"medsum/internal/resilience/retry"
	"medsum/internal/utils/text"
)

// ClientConfig holds the reliability settings of a Client.
type ClientConfig struct {
	// MaxAttempts is the total number of provider calls per Generate, including the first.
	MaxAttempts int

	// InitialDelay and MaxDelay bound the backoff between attempts.
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// RequestTimeout bounds a single provider call. Zero disables the per-call deadline.
	RequestTimeout time.Duration

	// RequestsPerSecond paces provider calls. Zero or less disables pacing.
	RequestsPerSecond float64

	// Burst is the limiter bucket size, used when RequestsPerSecond > 0.
	Burst int
}

// DefaultClientConfig returns the settings used when nothing is configured.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxAttempts:    3,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		RequestTimeout: 120 * time.Second,
		Burst:          1,
	}
}

// Client generates completions through a Provider with retries, a circuit
// breaker, optional rate limiting and metrics. It is safe for concurrent use.
type Client struct {
	provider        Provider
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	limiter         *rate.Limiter
	requestTimeout  time.Duration
	metricsRecorder MetricsRecorder
}

// Option customizes a Client.
type Option func(*Client)

// WithMetricsRecorder replaces the Prometheus recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(c *Client) {
		c.metricsRecorder = m
	}
}

// WithRetryConfig replaces the retry policy derived from ClientConfig.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) {
		c.retryConfig = cfg
	}
}

// WithCircuitBreaker replaces the default circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.circuitBreaker = cb
	}
}

// NewClient creates a Client around provider.
func NewClient(provider Provider, cfg ClientConfig, opts ...Option) *Client {
	retryConfig := retry.CompletionConfig(cfg.MaxAttempts)
	if cfg.InitialDelay > 0 {
		retryConfig.InitialDelay = cfg.InitialDelay
	}
	if cfg.MaxDelay > 0 {
		retryConfig.MaxDelay = cfg.MaxDelay
	}

	// Only transient failures count toward tripping the breaker.
	cbConfig := circuitbreaker.CompletionConfig(provider.Name())
	cbConfig.IsSuccessful = func(err error) bool {
		return err == nil || !retry.IsRetryable(err)
	}

	c := &Client{
		provider:        provider,
		circuitBreaker:  circuitbreaker.New(cbConfig),
		retryConfig:     retryConfig,
		requestTimeout:  cfg.RequestTimeout,
		metricsRecorder: NewPrometheusMetrics(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}

	slog.Info("Initialized completion client",
		slog.String("provider", provider.Name()),
		slog.Int("max_attempts", c.retryConfig.MaxAttempts),
		slog.Duration("request_timeout", c.requestTimeout),
		slog.Float64("requests_per_second", cfg.RequestsPerSecond))

	return c
}

// Provider returns the provider name.
func (c *Client) Provider() string {
	return c.provider.Name()
}

// CircuitState returns the circuit breaker state, e.g. "closed".
func (c *Client) CircuitState() string {
	return c.circuitBreaker.State().String()
}

// Generate returns the completion for req.
// Transient provider failures are retried with backoff; permanent failures and
// exhausted retries are returned as *entity.ServiceError. Cancellation of ctx
// is returned as is.
func (c *Client) Generate(ctx context.Context, req entity.Completion) (string, error) {
	completionID := uuid.New().String()
	providerName := c.provider.Name()
	promptTokens := text.EstimateTokens(req.Instructions) + text.EstimateTokens(req.Prompt)

	logging.FromContext(ctx).DebugContext(ctx, "Starting completion",
		slog.String("completion_id", completionID),
		slog.String("provider", providerName),
		slog.String("model", req.Model),
		slog.Int("prompt_length", text.CountRunes(req.Prompt)),
		slog.Int("prompt_tokens", promptTokens),
		slog.Int("max_tokens", req.MaxTokens))

	start := time.Now()
	attempts := 0
	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		attempts++

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.call(ctx, req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				logging.FromContext(ctx).WarnContext(ctx, "completion circuit breaker open, request rejected",
					slog.String("completion_id", completionID),
					slog.String("service", c.circuitBreaker.Name()),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("%s api unavailable: %w", providerName, err)
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	duration := time.Since(start)
	c.metricsRecorder.RecordAttempts(providerName, attempts)
	c.metricsRecorder.RecordDuration(providerName, duration)
	c.metricsRecorder.RecordPromptTokens(providerName, promptTokens)

	if retryErr != nil {
		c.metricsRecorder.RecordRequest(providerName, OutcomeFailure)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("completion canceled: %w", ctxErr)
		}

		logging.FromContext(ctx).ErrorContext(ctx, "Completion failed",
			slog.String("completion_id", completionID),
			slog.String("provider", providerName),
			slog.Int("attempts", attempts),
			slog.Duration("duration", duration),
			slog.String("error", retryErr.Error()))
		return "", &entity.ServiceError{Provider: providerName, Attempts: attempts, Err: retryErr}
	}

	outputLength := text.CountRunes(result)
	c.metricsRecorder.RecordRequest(providerName, OutcomeSuccess)
	c.metricsRecorder.RecordOutputLength(providerName, outputLength)

	logging.FromContext(ctx).InfoContext(ctx, "Completion finished",
		slog.String("completion_id", completionID),
		slog.String("provider", providerName),
		slog.Int("attempts", attempts),
		slog.Int("output_length", outputLength),
		slog.Duration("duration", duration))

	return result, nil
}

// call performs one provider call under the per-request deadline.
// A deadline hit on this call alone is reported as a 408 so it is retried.
func (c *Client) call(ctx context.Context, req entity.Completion) (string, error) {
	callCtx := ctx
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	out, err := c.provider.Complete(callCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &retry.HTTPError{StatusCode: http.StatusRequestTimeout, Message: "request timed out", Err: err}
		}
		return "", err
	}
	return out, nil
}
