// Package exchangerest provides the rate-limited, retrying REST driver
// base that concrete exchange adapters embed. It carries no
// exchange-specific request signing or wire parsing — that is the
// adapter's job — only the outbound rate-limit and retry policy the core
// depends on at its suspension points (spec §5: network I/O and
// rate-limit/retry delays are the only places a task may suspend).
package exchangerest

import (
	"context"
	"errors"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/axiomlane/tradecore/log"
)

// Driver is the shared base for a REST-backed ExchangeClient
// implementation: an HTTP client and an outbound rate limiter. Concrete
// adapters embed Driver and add exchange-specific signing and endpoint
// construction on top of Do.
type Driver struct {
	HTTP    *http.Client
	limiter *rate.Limiter
}

// NewDriver returns a Driver whose outbound requests are limited to r
// requests per second with burst capacity b.
func NewDriver(r rate.Limit, b int) *Driver {
	return &Driver{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(r, b),
	}
}

// Do waits for rate-limit headroom, then executes req. Waiting is the
// only suspension point in this call; once the request is in flight it is
// the underlying http.Client's context deadline that governs it.
func (d *Driver) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "exchangerest: rate limiter")
	}
	resp, err := d.HTTP.Do(req.WithContext(ctx))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "exchangerest: %s %s", req.Method, req.URL)
	}
	return resp, nil
}

// RetryPolicy describes the exponential backoff used for idempotent
// operations the core explicitly allows retrying on timeout — per spec
// §5, cancel_order is retried with exponential backoff on timeout, while
// create_order with an unknown outcome is never blindly retried (that is
// the reconciler's job, not this package's).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultCancelRetryPolicy is the backoff used for cancel_order retries.
var DefaultCancelRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// WithRetry runs op, retrying on a timeout error (context.DeadlineExceeded
// or any error whose Timeout method reports true, i.e. a timed-out
// cancel_order attempt) according to policy, as long as ctx itself is still
// live. Any other error is returned immediately without retry — per spec,
// timeout is the only retried failure mode for cancel_order.
func WithRetry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	delay := policy.BaseDelay
	var err error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isTimeout(err) {
			return err
		}
		log.Warnf(log.ExchangeSys, "retrying after timeout (attempt %d/%d): %v", attempt+1, policy.MaxAttempts, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	type timeoutter interface{ Timeout() bool }
	t, ok := err.(timeoutter)
	return ok && t.Timeout()
}
