package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/growthframe/agentcore/internal/domain/action"
)

// EventType identifies the kind of learning event.
type EventType string

const (
	EventActionResult  EventType = "action_result"
	EventErrorOccurred EventType = "error_occurred"
)

// LearningEvent is handed to the learning engine once per task result, or
// once per top-level pipeline failure. The core does not retain it after handoff.
type LearningEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Data       map[string]any `json:"data,omitempty"`
	Outcome    any            `json:"outcome,omitempty"`
	BusinessID string         `json:"business_id"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewActionResultEvent builds the learning event for one executed action.
func NewActionResultEvent(businessID string, res action.TaskResult) LearningEvent {
	return LearningEvent{
		ID:   uuid.NewString(),
		Type: EventActionResult,
		Data: map[string]any{
			"task_id":  res.TaskID,
			"status":   string(res.Status),
			"duration": res.Duration.Milliseconds(),
		},
		Outcome:    res,
		BusinessID: businessID,
		Timestamp:  time.Now(),
	}
}

// NewErrorEvent builds the learning event for a failed pipeline run.
func NewErrorEvent(rc RequestContext, stage string, err error) LearningEvent {
	return LearningEvent{
		ID:   uuid.NewString(),
		Type: EventErrorOccurred,
		Data: map[string]any{
			"stage":      stage,
			"error":      err.Error(),
			"session_id": rc.SessionID,
			"user_id":    rc.UserID,
		},
		BusinessID: rc.BusinessID,
		Timestamp:  time.Now(),
	}
}
