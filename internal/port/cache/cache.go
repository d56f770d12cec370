// Package cache defines the port interface for the in-process profile cache.
package cache

import (
	"github.com/growthframe/agentcore/internal/domain/profile"
)

// ProfileCache is the port interface for caching business profiles by id.
type ProfileCache interface {
	Get(businessID string) (*profile.BusinessProfile, bool)
	Set(businessID string, p *profile.BusinessProfile)
	Delete(businessID string)
}
