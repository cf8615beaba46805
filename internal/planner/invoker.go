package planner

import (
	"context"
	"time"

	"wanderai/pkg/llm"
	"wanderai/pkg/logger"
)

const (
	defaultAttempts       = 2
	defaultBackoff        = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
	defaultAttemptTimeout = 30 * time.Second
)

// Invoker calls backend candidates in priority order until one returns text.
// It holds no per-request state and is safe for concurrent use.
type Invoker struct {
	attempts       int
	backoff        time.Duration
	maxBackoff     time.Duration
	attemptTimeout time.Duration
}

type InvokerOption func(*Invoker)

// WithAttempts sets the attempts per candidate, including the first.
func WithAttempts(n int) InvokerOption {
	return func(i *Invoker) {
		if n > 0 {
			i.attempts = n
		}
	}
}

// WithBackoff sets the base delay, doubled after every transient failure and capped at max.
func WithBackoff(base, max time.Duration) InvokerOption {
	return func(i *Invoker) {
		if base >= 0 {
			i.backoff = base
		}
		if max >= base {
			i.maxBackoff = max
		}
	}
}

// WithAttemptTimeout bounds a single backend call. Zero disables the bound.
func WithAttemptTimeout(d time.Duration) InvokerOption {
	return func(i *Invoker) {
		if d >= 0 {
			i.attemptTimeout = d
		}
	}
}

func NewInvoker(opts ...InvokerOption) *Invoker {
	i := &Invoker{
		attempts:       defaultAttempts,
		backoff:        defaultBackoff,
		maxBackoff:     defaultMaxBackoff,
		attemptTimeout: defaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke returns the first successful response and the number of backend calls made.
// Transient failures are retried on the same candidate; permanent and quota failures
// move on to the next one. When every candidate fails the error is an *ExhaustedError.
// Cancellation of ctx returns ctx.Err() immediately.
func (i *Invoker) Invoke(ctx context.Context, prompt string, candidates []llm.Backend) (RawModelResponse, int, error) {
	var (
		failures []*llm.BackendError
		calls    int
	)

	for _, backend := range candidates {
		for attempt := 1; attempt <= i.attempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return RawModelResponse{}, calls, err
			}

			calls++
			text, err := i.call(ctx, backend, prompt)
			if err == nil {
				logger.Debug("generation succeeded", "backend", backend.ID(), "attempt", attempt)
				return RawModelResponse{Text: text, Backend: backend.ID()}, calls, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return RawModelResponse{}, calls, ctxErr
			}

			berr := llm.Wrap(backend.ID(), err)
			if berr.Backend == "" {
				berr.Backend = backend.ID()
			}
			logger.Warn("generation attempt failed",
				"backend", backend.ID(), "attempt", attempt, "reason", berr.Reason, "err", berr.Err)

			if !berr.Retryable() || attempt == i.attempts {
				failures = append(failures, berr)
				break
			}
			if err := sleep(ctx, i.delay(attempt)); err != nil {
				return RawModelResponse{}, calls, err
			}
		}
	}

	return RawModelResponse{}, calls, &ExhaustedError{Failures: failures}
}

func (i *Invoker) call(ctx context.Context, backend llm.Backend, prompt string) (string, error) {
	if i.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.attemptTimeout)
		defer cancel()
	}
	text, err := backend.Generate(ctx, prompt)
	if err == nil && text == "" {
		err = llm.ErrEmptyResponse
	}
	return text, err
}

func (i *Invoker) delay(attempt int) time.Duration {
	d := i.backoff
	for n := 1; n < attempt; n++ {
		d *= 2
		if d >= i.maxBackoff {
			return i.maxBackoff
		}
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
