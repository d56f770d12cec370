package resilience

import (
	"context"
	"fmt"
	"time"
)

// Guard bounds one external collaborator: every call runs under a deadline
// and behind a circuit breaker. A stuck engine therefore times out instead
// of blocking its pipeline stage forever.
type Guard struct {
	name    string
	breaker *Breaker
	timeout time.Duration
}

// NewGuard creates a guard for the named collaborator.
func NewGuard(name string, timeout time.Duration, maxFailures int, breakerTimeout time.Duration) *Guard {
	return &Guard{
		name:    name,
		breaker: NewBreaker(maxFailures, breakerTimeout),
		timeout: timeout,
	}
}

// Do runs fn with a bounded context. Errors are wrapped with the guard name.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.breaker.Execute(func() error { return fn(callCtx) }); err != nil {
		return fmt.Errorf("%s: %w", g.name, err)
	}
	return nil
}
