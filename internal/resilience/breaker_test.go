package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(3, time.Minute)
	fail := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if err := b.Execute(fail); err == nil {
			t.Fatalf("call %d: expected failure", i)
		}
	}

	err := b.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)
	fail := func() error { return errors.New("boom") }
	ok := func() error { return nil }

	b.Execute(fail)
	b.Execute(fail)
	if err := b.Execute(ok); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The counter restarted, so two more failures do not trip the breaker.
	b.Execute(fail)
	b.Execute(fail)
	if err := b.Execute(ok); err != nil {
		t.Fatalf("Execute after reset: %v", err)
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	base := time.Now()
	b.now = func() time.Time { return base }

	b.Execute(func() error { return errors.New("boom") })
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}

	// After the open timeout one probe is allowed; success closes the circuit.
	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("call after close: %v", err)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	base := time.Now()
	b.now = func() time.Time { return base }

	b.Execute(func() error { return errors.New("boom") })

	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	b.Execute(func() error { return errors.New("still down") })

	// The failed probe reopened the circuit immediately.
	b.now = func() time.Time { return base.Add(2*time.Minute + time.Second) }
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestGuardTimeout(t *testing.T) {
	g := NewGuard("slow engine", 20*time.Millisecond, 5, time.Minute)

	err := g.Do(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestGuardWrapsName(t *testing.T) {
	g := NewGuard("analysis engine", time.Second, 5, time.Minute)

	err := g.Do(context.Background(), func(context.Context) error {
		return errors.New("boom")
	})
	if err == nil || err.Error() != "analysis engine: boom" {
		t.Fatalf("err = %v, want name-wrapped error", err)
	}
}

func TestGuardSuccess(t *testing.T) {
	g := NewGuard("planning engine", time.Second, 5, time.Minute)

	ran := false
	if err := g.Do(context.Background(), func(context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
}
