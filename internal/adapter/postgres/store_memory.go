package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/growthframe/agentcore/internal/domain/memory"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
)

// Recall returns the most recent memory records whose content matches the
// query text for the request's business. Matching is full-text; scoring
// beyond recency is left to the learning engine.
func (s *Store) Recall(ctx context.Context, query string, rc pipeline.RequestContext) ([]memory.Record, error) {
	const q = `
		SELECT id, business_id, content, tags, confidence, metadata, created_at
		FROM agent_memories
		WHERE business_id = $1
		  AND to_tsvector('english', content) @@ plainto_tsquery('english', $2)
		ORDER BY created_at DESC
		LIMIT 20`

	rows, err := s.pool.Query(ctx, q, rc.BusinessID, query)
	if err != nil {
		return nil, fmt.Errorf("recall memories: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// StoreLongTerm persists one entry into the long-term memory tier.
func (s *Store) StoreLongTerm(ctx context.Context, req memory.StoreRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	const q = `
		INSERT INTO agent_memories (business_id, content, tags, confidence, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	meta := json.RawMessage(`{}`)
	if req.Metadata != nil {
		b, err := json.Marshal(req.Metadata)
		if err != nil {
			return fmt.Errorf("marshal memory metadata: %w", err)
		}
		meta = b
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if _, err := s.pool.Exec(ctx, q, req.BusinessID, req.Content, req.Tags, req.Confidence, meta, ts); err != nil {
		return fmt.Errorf("store memory: %w", err)
	}
	return nil
}

// SearchLongTerm returns up to limit long-term records tagged with key.
// An empty businessID searches across all businesses.
func (s *Store) SearchLongTerm(ctx context.Context, businessID, key string, limit int) ([]memory.Record, error) {
	if limit <= 0 {
		limit = 10
	}

	const q = `
		SELECT id, business_id, content, tags, confidence, metadata, created_at
		FROM agent_memories
		WHERE ($1 = '' OR business_id = $1) AND $2 = ANY(tags)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := s.pool.Query(ctx, q, businessID, key, limit)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]memory.Record, error) {
	var result []memory.Record
	for rows.Next() {
		var m memory.Record
		var meta []byte
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.Content, &m.Tags, &m.Confidence, &meta, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &m.Metadata)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
