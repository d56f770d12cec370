// Package profilestore defines the port interface for loading business profiles.
package profilestore

import (
	"context"

	"github.com/growthframe/agentcore/internal/domain/profile"
)

// Store is the port interface backing the profile cache.
type Store interface {
	// Load fetches one profile by business id. Returns domain.ErrNotFound
	// when the business does not exist.
	Load(ctx context.Context, businessID string) (*profile.BusinessProfile, error)

	// ListActive returns all active profiles, used to warm the cache at boot.
	ListActive(ctx context.Context) ([]profile.BusinessProfile, error)
}

// MetricsSource provides current operational metrics for a business,
// consumed during the perceive stage.
type MetricsSource interface {
	Metrics(ctx context.Context, businessID string) (map[string]float64, error)
}
