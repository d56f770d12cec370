// Package memory provides the domain model for agent memory records.
package memory

import (
	"errors"
	"time"
)

// Record is a single memory entry recalled from or stored into the memory tiers.
type Record struct {
	ID         string            `json:"id"`
	BusinessID string            `json:"business_id"`
	Content    string            `json:"content"`
	Tags       []string          `json:"tags,omitempty"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// StoreRequest is the input for persisting a long-term memory entry.
type StoreRequest struct {
	BusinessID string            `json:"business_id"`
	Content    string            `json:"content"`
	Tags       []string          `json:"tags,omitempty"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Validate checks that a StoreRequest has all required fields.
func (r *StoreRequest) Validate() error {
	if r.BusinessID == "" {
		return errors.New("business_id is required")
	}
	if r.Content == "" {
		return errors.New("content is required")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return errors.New("confidence must be between 0 and 1")
	}
	return nil
}
