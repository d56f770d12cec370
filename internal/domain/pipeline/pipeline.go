// Package pipeline defines the per-request aggregates that flow through the
// six-stage processing pipeline.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/memory"
	"github.com/growthframe/agentcore/internal/domain/profile"
	"github.com/growthframe/agentcore/internal/domain/trigger"
)

// RequestContext is created fresh for every Process call and threaded
// through every stage. It is never shared across requests.
type RequestContext struct {
	BusinessID string            `json:"business_id"`
	UserID     string            `json:"user_id,omitempty"`
	SessionID  string            `json:"session_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewRequestContext builds the request context for a trigger with a fresh,
// globally unique session id.
func NewRequestContext(t trigger.Trigger) RequestContext {
	return RequestContext{
		BusinessID: t.BusinessID,
		UserID:     t.UserID,
		SessionID:  uuid.NewString(),
		Timestamp:  time.Now(),
		Metadata:   t.Metadata,
	}
}

// Perception aggregates everything the agent observed for one pipeline run.
// It is produced and consumed entirely within that run.
type Perception struct {
	Trigger   trigger.Trigger          `json:"trigger"`
	Context   RequestContext           `json:"context"`
	Profile   *profile.BusinessProfile `json:"profile"`
	Memories  []memory.Record          `json:"memories"`
	Metrics   map[string]float64       `json:"metrics,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// BusinessAnalysis is the analysis engine's output. The core treats it as a
// typed payload consumed by planning; its content is engine-defined.
type BusinessAnalysis struct {
	Summary       string             `json:"summary"`
	Sentiment     float64            `json:"sentiment"`
	Topics        []string           `json:"topics,omitempty"`
	Opportunities []string           `json:"opportunities,omitempty"`
	Signals       map[string]float64 `json:"signals,omitempty"`
}

// Recommendation is a proactive suggestion surfaced to the caller.
type Recommendation struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    action.Priority `json:"priority"`
	Confidence  float64         `json:"confidence"`
}

// RecommendationCriteria seeds the recommendation engine.
type RecommendationCriteria struct {
	BusinessID string              `json:"business_id"`
	Scope      string              `json:"scope,omitempty"`
	Criteria   map[string]string   `json:"criteria,omitempty"`
	Results    []action.TaskResult `json:"results,omitempty"`
}

// AgentResponse is the structured outcome of one Process call.
type AgentResponse struct {
	Success         bool                `json:"success"`
	Error           string              `json:"error,omitempty"`
	Actions         []action.TaskResult `json:"actions,omitempty"`
	Insights        []string            `json:"insights,omitempty"`
	Recommendations []Recommendation    `json:"recommendations,omitempty"`
	ProcessingTime  time.Duration       `json:"processing_time_ms"`
}
