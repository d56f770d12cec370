package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthframe/agentcore/internal/domain"
	"github.com/growthframe/agentcore/internal/domain/profile"
)

// Store implements the profile store and memory store ports over PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Load fetches one business profile by id.
func (s *Store) Load(ctx context.Context, businessID string) (*profile.BusinessProfile, error) {
	const q = `
		SELECT id, name, industry, description, preferences, active, updated_at
		FROM business_profiles
		WHERE id = $1`

	var p profile.BusinessProfile
	var prefs []byte
	err := s.pool.QueryRow(ctx, q, businessID).Scan(
		&p.ID, &p.Name, &p.Industry, &p.Description, &prefs, &p.Active, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", businessID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	return &p, nil
}

// ListActive returns all active business profiles.
func (s *Store) ListActive(ctx context.Context) ([]profile.BusinessProfile, error) {
	const q = `
		SELECT id, name, industry, description, preferences, active, updated_at
		FROM business_profiles
		WHERE active
		ORDER BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list active profiles: %w", err)
	}
	defer rows.Close()

	var result []profile.BusinessProfile
	for rows.Next() {
		var p profile.BusinessProfile
		var prefs []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Industry, &p.Description, &prefs, &p.Active, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if len(prefs) > 0 {
			_ = json.Unmarshal(prefs, &p.Preferences)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Metrics returns the current operational metrics for a business.
func (s *Store) Metrics(ctx context.Context, businessID string) (map[string]float64, error) {
	const q = `SELECT name, value FROM business_metrics WHERE business_id = $1`

	rows, err := s.pool.Query(ctx, q, businessID)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		metrics[name] = value
	}
	return metrics, rows.Err()
}
