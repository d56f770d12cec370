package observer_test

import (
	"context"
	"testing"
	"time"

	"github.com/growthframe/agentcore/internal/port/observer"
)

type recorder struct {
	events []observer.Event
}

func (r *recorder) Notify(_ context.Context, ev observer.Event) {
	r.events = append(r.events, ev)
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	multi := observer.Multi{a, b}

	ev := observer.Event{Type: observer.EventReady, Timestamp: time.Now()}
	multi.Notify(context.Background(), ev)

	for i, r := range []*recorder{a, b} {
		if len(r.events) != 1 || r.events[0].Type != observer.EventReady {
			t.Errorf("observer %d events = %+v", i, r.events)
		}
	}
}

func TestEmptyMultiIsNoop(t *testing.T) {
	var multi observer.Multi
	// Must not panic.
	multi.Notify(context.Background(), observer.Event{Type: observer.EventStopped})
}
