package trigger_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/growthframe/agentcore/internal/domain/trigger"
)

func TestQueryText(t *testing.T) {
	tests := []struct {
		name string
		trg  trigger.Trigger
		want string
	}{
		{
			name: "message payload",
			trg: trigger.Trigger{
				Type:    trigger.TypeMessageReceived,
				Payload: trigger.Message{Channel: "email", Text: "pricing question"},
			},
			want: "pricing question",
		},
		{
			name: "content request payload",
			trg: trigger.Trigger{
				Type:    trigger.TypeContentRequest,
				Payload: trigger.ContentRequest{ContentType: "blog_post", Topic: "spring launch"},
			},
			want: "blog_post spring launch",
		},
		{
			name: "scheduled check payload",
			trg: trigger.Trigger{
				Type:    trigger.TypeScheduledCheck,
				Payload: trigger.ScheduledCheck{CheckName: "daily_review"},
			},
			want: "daily_review",
		},
		{
			name: "execute directive payload",
			trg: trigger.Trigger{
				Type:    trigger.TypeExecuteDirective,
				Payload: trigger.ExecuteDirective{RecommendationID: "r1", ActionType: "publish_content"},
			},
			want: "publish_content",
		},
		{
			name: "insight request payload",
			trg: trigger.Trigger{
				Type:    trigger.TypeInsightRequest,
				Payload: trigger.InsightRequest{Timeframe: "30d"},
			},
			want: "insights 30d",
		},
		{
			name: "missing payload falls back to type",
			trg:  trigger.Trigger{Type: trigger.TypeScheduledCheck},
			want: "scheduled_check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trg.QueryText(); got != tt.want {
				t.Errorf("QueryText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTriggerJSONRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		trg       trigger.Trigger
		wantQuery string
	}{
		{
			name: "message",
			trg: trigger.Trigger{
				Type:       trigger.TypeMessageReceived,
				Payload:    trigger.Message{Channel: "email", Sender: "customer", Text: "pricing question"},
				BusinessID: "b1",
				UserID:     "u1",
				Timestamp:  ts,
				Metadata:   map[string]string{"source": "inbox"},
			},
			wantQuery: "pricing question",
		},
		{
			name: "content request",
			trg: trigger.Trigger{
				Type:       trigger.TypeContentRequest,
				Payload:    trigger.ContentRequest{ContentType: "blog_post", Topic: "spring launch"},
				BusinessID: "b1",
				Timestamp:  ts,
			},
			wantQuery: "blog_post spring launch",
		},
		{
			name: "scheduled check",
			trg: trigger.Trigger{
				Type:       trigger.TypeScheduledCheck,
				Payload:    trigger.ScheduledCheck{CheckName: "daily_review"},
				BusinessID: "b1",
				Timestamp:  ts,
			},
			wantQuery: "daily_review",
		},
		{
			name: "recommendation query",
			trg: trigger.Trigger{
				Type:       trigger.TypeRecommendation,
				Payload:    trigger.RecommendationQuery{Criteria: map[string]string{"focus": "growth"}},
				BusinessID: "b1",
				Timestamp:  ts,
			},
			wantQuery: "growth",
		},
		{
			name: "execute directive",
			trg: trigger.Trigger{
				Type:       trigger.TypeExecuteDirective,
				Payload:    trigger.ExecuteDirective{RecommendationID: "r1", ActionType: "publish_content"},
				BusinessID: "b1",
				Timestamp:  ts,
			},
			wantQuery: "publish_content",
		},
		{
			name: "insight request",
			trg: trigger.Trigger{
				Type:       trigger.TypeInsightRequest,
				Payload:    trigger.InsightRequest{Timeframe: "30d"},
				BusinessID: "b1",
				Timestamp:  ts,
			},
			wantQuery: "insights 30d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.trg)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if !strings.Contains(string(data), `"payload"`) {
				t.Fatalf("wire form carries no payload: %s", data)
			}

			var got trigger.Trigger
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if !reflect.DeepEqual(got.Payload, tt.trg.Payload) {
				t.Errorf("Payload = %#v, want %#v", got.Payload, tt.trg.Payload)
			}
			if got.QueryText() != tt.wantQuery {
				t.Errorf("QueryText() after round trip = %q, want %q", got.QueryText(), tt.wantQuery)
			}
			if got.BusinessID != tt.trg.BusinessID || got.UserID != tt.trg.UserID || got.Type != tt.trg.Type {
				t.Errorf("envelope fields changed: %+v", got)
			}
			if !got.Timestamp.Equal(tt.trg.Timestamp) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.trg.Timestamp)
			}
		})
	}
}

func TestTriggerJSONNoPayload(t *testing.T) {
	trg := trigger.Trigger{Type: trigger.TypeScheduledCheck, BusinessID: "b1", Timestamp: time.Now()}

	data, err := json.Marshal(trg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"payload"`) {
		t.Fatalf("nil payload serialized: %s", data)
	}

	var got trigger.Trigger
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Payload != nil {
		t.Errorf("Payload = %#v, want nil", got.Payload)
	}
	if got.QueryText() != "scheduled_check" {
		t.Errorf("QueryText() = %q, want type fallback", got.QueryText())
	}
}

func TestTriggerJSONUnknownType(t *testing.T) {
	raw := `{"type":"mystery","payload":{"x":1},"business_id":"b1"}`

	var got trigger.Trigger
	if err := json.Unmarshal([]byte(raw), &got); err == nil {
		t.Fatal("expected error for unknown trigger type with payload")
	}
}
