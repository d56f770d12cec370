// Package nats connects the agent core to its NATS-resident collaborators:
// lifecycle events are published to JetStream for observers, and capability
// engines are reached over request-reply.
package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const streamName = "AGENTCORE"

// Client holds the NATS connection and JetStream context.
type Client struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Connect establishes a connection to NATS and ensures the lifecycle stream exists.
func Connect(ctx context.Context, url string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	// Ensure the stream exists with subjects matching our topic patterns.
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"agent.>", "learning.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", streamName)
	return &Client{nc: nc, js: js}, nil
}

// Close shuts down the NATS connection.
func (c *Client) Close() error {
	c.nc.Close()
	return nil
}
