// Package observer defines the port for lifecycle event notification.
// It replaces a generic event-bus with an explicit subscriber interface:
// correctness never depends on anyone listening.
package observer

import (
	"context"
	"log/slog"
	"time"

	"github.com/growthframe/agentcore/internal/domain/action"
)

// EventType identifies a lifecycle event.
type EventType string

const (
	EventStarted      EventType = "agent.started"
	EventReady        EventType = "agent.ready"
	EventStopped      EventType = "agent.stopped"
	EventTasksPending EventType = "agent.tasks_pending"
)

// Event is one lifecycle notification.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// PendingActions carries the unfinished registry entries for
	// EventTasksPending; nil otherwise.
	PendingActions []action.Action `json:"pending_actions,omitempty"`
}

// Observer receives lifecycle events.
type Observer interface {
	Notify(ctx context.Context, ev Event)
}

// Multi fans an event out to several observers. A nil or empty Multi is a
// valid no-op observer.
type Multi []Observer

// Notify delivers the event to every registered observer.
func (m Multi) Notify(ctx context.Context, ev Event) {
	for _, o := range m {
		o.Notify(ctx, ev)
	}
}

// LogObserver writes lifecycle events to the structured log.
type LogObserver struct{}

// Notify logs the event at info level.
func (LogObserver) Notify(_ context.Context, ev Event) {
	slog.Info("lifecycle event", "type", ev.Type, "pending", len(ev.PendingActions))
}
