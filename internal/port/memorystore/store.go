// Package memorystore defines the port interface for the agent's memory tiers.
package memorystore

import (
	"context"

	"github.com/growthframe/agentcore/internal/domain/memory"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
)

// Store is the port interface for short-term recall and long-term persistence.
type Store interface {
	// Recall returns records relevant to the query within the request's scope.
	Recall(ctx context.Context, query string, rc pipeline.RequestContext) ([]memory.Record, error)

	// StoreLongTerm persists one entry into the long-term tier.
	StoreLongTerm(ctx context.Context, req memory.StoreRequest) error

	// SearchLongTerm returns up to limit long-term records matching key.
	SearchLongTerm(ctx context.Context, businessID, key string, limit int) ([]memory.Record, error)
}
