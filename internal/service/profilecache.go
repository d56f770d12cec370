package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/growthframe/agentcore/internal/domain/profile"
	"github.com/growthframe/agentcore/internal/port/cache"
	"github.com/growthframe/agentcore/internal/port/profilestore"
)

// ProfileCache is the lazily-populated business profile cache: cached
// profiles are returned directly, misses load through the profile store.
// Loads for the same uncached id are coalesced so exactly one store call
// happens per miss. Entries persist for the process lifetime.
type ProfileCache struct {
	cache cache.ProfileCache
	store profilestore.Store
	group singleflight.Group
}

// NewProfileCache creates a profile cache over the given store and cache backend.
func NewProfileCache(c cache.ProfileCache, store profilestore.Store) *ProfileCache {
	return &ProfileCache{cache: c, store: store}
}

// Get returns the profile for businessID, loading it on a miss.
func (p *ProfileCache) Get(ctx context.Context, businessID string) (*profile.BusinessProfile, error) {
	if prof, ok := p.cache.Get(businessID); ok {
		return prof, nil
	}

	v, err, _ := p.group.Do(businessID, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the entry while we queued.
		if prof, ok := p.cache.Get(businessID); ok {
			return prof, nil
		}

		prof, err := p.store.Load(ctx, businessID)
		if err != nil {
			return nil, fmt.Errorf("load profile %s: %w", businessID, err)
		}
		p.cache.Set(businessID, prof)
		return prof, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*profile.BusinessProfile), nil
}

// Warm preloads all active profiles, used by the boot sequence.
func (p *ProfileCache) Warm(ctx context.Context) (int, error) {
	profiles, err := p.store.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active profiles: %w", err)
	}
	for i := range profiles {
		p.cache.Set(profiles[i].ID, &profiles[i])
	}
	slog.Debug("profile cache warmed", "profiles", len(profiles))
	return len(profiles), nil
}

// Evict removes one profile from the cache.
func (p *ProfileCache) Evict(businessID string) {
	p.cache.Delete(businessID)
}
