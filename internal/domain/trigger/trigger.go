// Package trigger defines the external events that start a pipeline run.
// Payloads form a closed sum type keyed by the trigger type, so consumers
// switch on the concrete payload instead of digging through an untyped blob.
package trigger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Type identifies the kind of inbound trigger.
type Type string

const (
	TypeMessageReceived  Type = "message_received"
	TypeContentRequest   Type = "content_request"
	TypeScheduledCheck   Type = "scheduled_check"
	TypeRecommendation   Type = "recommendation_request"
	TypeExecuteDirective Type = "execute_recommendation"
	TypeInsightRequest   Type = "insight_request"
)

// Payload is the closed interface implemented by every trigger payload variant.
type Payload interface {
	// Query returns the text used for memory recall during perception.
	Query() string

	isTriggerPayload()
}

// Message carries an inbound customer or user message.
type Message struct {
	Channel string `json:"channel"`
	Sender  string `json:"sender"`
	Text    string `json:"text"`
}

func (m Message) Query() string    { return m.Text }
func (Message) isTriggerPayload() {}

// ContentRequest asks the agent to produce a piece of content.
type ContentRequest struct {
	ContentType string            `json:"content_type"`
	Topic       string            `json:"topic"`
	Params      map[string]string `json:"params,omitempty"`
}

func (c ContentRequest) Query() string {
	return strings.TrimSpace(c.ContentType + " " + c.Topic)
}
func (ContentRequest) isTriggerPayload() {}

// ScheduledCheck is a periodic self-initiated check.
type ScheduledCheck struct {
	CheckName string `json:"check_name"`
}

func (s ScheduledCheck) Query() string    { return s.CheckName }
func (ScheduledCheck) isTriggerPayload() {}

// RecommendationQuery requests proactive recommendations matching criteria.
type RecommendationQuery struct {
	Criteria map[string]string `json:"criteria,omitempty"`
}

func (r RecommendationQuery) Query() string {
	parts := make([]string, 0, len(r.Criteria))
	for _, v := range r.Criteria {
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}
func (RecommendationQuery) isTriggerPayload() {}

// ExecuteDirective asks the agent to carry out a previously surfaced recommendation.
type ExecuteDirective struct {
	RecommendationID string         `json:"recommendation_id"`
	ActionType       string         `json:"action_type"`
	Parameters       map[string]any `json:"parameters,omitempty"`
}

func (e ExecuteDirective) Query() string    { return e.ActionType }
func (ExecuteDirective) isTriggerPayload() {}

// InsightRequest asks for insights over a time frame.
type InsightRequest struct {
	Timeframe string `json:"timeframe"`
}

func (i InsightRequest) Query() string    { return "insights " + i.Timeframe }
func (InsightRequest) isTriggerPayload() {}

// Trigger is one immutable inbound event. The core never persists it;
// ownership stays with the caller.
type Trigger struct {
	Type       Type              `json:"type"`
	Payload    Payload           `json:"-"`
	BusinessID string            `json:"business_id"`
	UserID     string            `json:"user_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// QueryText returns the recall query derived from the payload.
// Falls back to the trigger type when no payload is attached.
func (t Trigger) QueryText() string {
	if t.Payload == nil {
		return string(t.Type)
	}
	if q := t.Payload.Query(); q != "" {
		return q
	}
	return string(t.Type)
}

// wireTrigger is the JSON form of a Trigger. The payload variant is keyed by
// the trigger type, so the sum type survives a round trip.
type wireTrigger struct {
	Type       Type              `json:"type"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	BusinessID string            `json:"business_id"`
	UserID     string            `json:"user_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON encodes the trigger with its payload inline.
func (t Trigger) MarshalJSON() ([]byte, error) {
	w := wireTrigger{
		Type:       t.Type,
		BusinessID: t.BusinessID,
		UserID:     t.UserID,
		Timestamp:  t.Timestamp,
		Metadata:   t.Metadata,
	}
	if t.Payload != nil {
		data, err := json.Marshal(t.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", t.Type, err)
		}
		w.Payload = data
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the trigger, resolving the payload variant from the
// trigger type. A missing payload decodes to nil.
func (t *Trigger) UnmarshalJSON(data []byte) error {
	var w wireTrigger
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	t.Type = w.Type
	t.BusinessID = w.BusinessID
	t.UserID = w.UserID
	t.Timestamp = w.Timestamp
	t.Metadata = w.Metadata
	t.Payload = nil

	if len(w.Payload) == 0 || string(w.Payload) == "null" {
		return nil
	}
	payload, err := decodePayload(w.Type, w.Payload)
	if err != nil {
		return err
	}
	t.Payload = payload
	return nil
}

// decodePayload resolves the payload variant for a trigger type.
func decodePayload(typ Type, data []byte) (Payload, error) {
	switch typ {
	case TypeMessageReceived:
		return decodeAs[Message](typ, data)
	case TypeContentRequest:
		return decodeAs[ContentRequest](typ, data)
	case TypeScheduledCheck:
		return decodeAs[ScheduledCheck](typ, data)
	case TypeRecommendation:
		return decodeAs[RecommendationQuery](typ, data)
	case TypeExecuteDirective:
		return decodeAs[ExecuteDirective](typ, data)
	case TypeInsightRequest:
		return decodeAs[InsightRequest](typ, data)
	}
	return nil, fmt.Errorf("unknown trigger type %q", typ)
}

func decodeAs[P Payload](typ Type, data []byte) (Payload, error) {
	var p P
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", typ, err)
	}
	return p, nil
}
