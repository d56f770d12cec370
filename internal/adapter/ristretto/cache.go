// Package ristretto implements the profile cache port using
// dgraph-io/ristretto as an in-process cache.
package ristretto

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/growthframe/agentcore/internal/domain/profile"
)

// Cache wraps a ristretto cache keyed by business id. Profiles have no TTL:
// a loaded profile stays valid for the process lifetime unless explicitly
// evicted.
type Cache struct {
	c *ristretto.Cache[string, *profile.BusinessProfile]
}

// New creates a ristretto-backed profile cache holding up to maxProfiles entries.
func New(maxProfiles int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *profile.BusinessProfile]{
		NumCounters: maxProfiles * 10, // ~10x expected items
		MaxCost:     maxProfiles,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get retrieves a cached profile.
func (c *Cache) Get(businessID string) (*profile.BusinessProfile, bool) {
	return c.c.Get(businessID)
}

// Set stores a profile. Each entry costs 1 against the cache capacity.
func (c *Cache) Set(businessID string, p *profile.BusinessProfile) {
	c.c.Set(businessID, p, 1)
	// Make the entry visible to immediate readers.
	c.c.Wait()
}

// Delete evicts a profile.
func (c *Cache) Delete(businessID string) {
	c.c.Del(businessID)
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.c.Close()
}
