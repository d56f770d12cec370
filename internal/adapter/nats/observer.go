package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/growthframe/agentcore/internal/port/observer"
)

// Observer publishes lifecycle events to JetStream, one subject per event
// type (agent.started, agent.ready, agent.stopped, agent.tasks_pending).
type Observer struct {
	client *Client
}

// NewObserver creates a lifecycle observer publishing through the client.
func NewObserver(client *Client) *Observer {
	return &Observer{client: client}
}

// Notify publishes the event. Lifecycle notification is best-effort:
// publish failures are logged, never propagated.
func (o *Observer) Notify(ctx context.Context, ev observer.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("marshal lifecycle event", "type", ev.Type, "error", err)
		return
	}

	if _, err := o.client.js.Publish(ctx, string(ev.Type), data); err != nil {
		slog.Error("publish lifecycle event", "type", ev.Type, "error", err)
	}
}
