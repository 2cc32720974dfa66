package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/webclip"
	"golang.org/x/time/rate"
)

// Retry defaults: three attempts with waits of 1s then 2s between them.
const (
	DefaultMaxAttempts    = 3
	DefaultBaseDelay      = 1 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

const (
	// maxResponseBytes bounds how much of a response body is buffered.
	maxResponseBytes = 10 << 20
	// maxErrorBody bounds the body excerpt carried by an HTTPError.
	maxErrorBody = 1000
)

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Response is a fully buffered response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Executor sends a single logical request with a timeout, status
// classification and bounded exponential-backoff retry.
//
// 2xx responses return immediately. 429 and 5xx responses, and transport
// failures, are retried after base*2^attempt. Any other status fails at once.
type Executor struct {
	client      *http.Client
	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
	sleep       SleepFunc
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRequestTimeout sets the timeout of each attempt.
// Defaults to DefaultRequestTimeout (30s).
func WithRequestTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithRetry sets the total number of attempts and the delay before the first retry.
func WithRetry(maxAttempts int, baseDelay time.Duration) ExecutorOption {
	return func(e *Executor) {
		if maxAttempts > 0 {
			e.maxAttempts = maxAttempts
		}
		e.baseDelay = baseDelay
	}
}

// WithRateLimit limits outgoing attempts to rps requests per second.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64) ExecutorOption {
	return func(e *Executor) {
		if rps <= 0 {
			e.limiter = nil
			return
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryLogger logs every retry decision to logger.
func WithRetryLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithSleep replaces the backoff wait. Used by tests to avoid real delays.
func WithSleep(fn SleepFunc) ExecutorOption {
	return func(e *Executor) {
		e.sleep = fn
	}
}

// NewExecutor creates a new Executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		timeout:     DefaultRequestTimeout,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       sleep,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.client = &http.Client{
		Timeout: e.timeout,
	}

	return e
}

// Do sends req, retrying transient failures, and returns the buffered 2xx
// response. Request bodies are replayed through req.GetBody.
//
// Fails with an ENETWORK error when transport failures exhaust the attempts,
// or an *webclip.HTTPError for non-2xx statuses. Cancellation of ctx is
// returned as ctx.Err().
func (e *Executor) Do(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := e.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, &webclip.HTTPError{Status: resp.Status, Body: webclip.Snippet(string(resp.Body), maxErrorBody)}
	}
	return resp, nil
}

// execute runs the retry loop and returns the last response received,
// whatever its status. It fails only when no response arrived.
func (e *Executor) execute(ctx context.Context, req *http.Request) (*Response, error) {
	var last *Response
	var lastErr error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				return nil, err
			}
		}

		resp, err := e.send(ctx, req)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			last = nil
			lastErr = webclip.Errorf(webclip.ENETWORK, "%s %s: %v", req.Method, req.URL.Redacted(), err)
		case isRetryable(resp.Status):
			last = resp
			lastErr = &webclip.HTTPError{Status: resp.Status, Body: webclip.Snippet(string(resp.Body), maxErrorBody)}
		default:
			return resp, nil
		}

		// Don't wait after the last attempt
		if attempt >= e.maxAttempts-1 {
			break
		}

		delay := e.baseDelay << attempt
		if e.logger != nil {
			e.logger.Warn("retry",
				"method", req.Method,
				"url", req.URL.Redacted(),
				"attempt", attempt+2,
				"delay", delay,
				"err", lastErr,
			)
		}
		if err := e.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	if last != nil {
		return last, nil
	}
	return nil, lastErr
}

// send performs one attempt and buffers the response body.
func (e *Executor) send(ctx context.Context, req *http.Request) (*Response, error) {
	r := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}

	resp, err := e.client.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// isRetryable reports whether a status is worth another attempt.
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
