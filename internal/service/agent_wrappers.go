package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/trigger"
)

// HandleMessage processes an inbound user message through the full pipeline.
func (s *AgentService) HandleMessage(ctx context.Context, businessID, userID, channel, text string) *pipeline.AgentResponse {
	return s.Process(ctx, trigger.Trigger{
		Type:       trigger.TypeMessageReceived,
		Payload:    trigger.Message{Channel: channel, Sender: userID, Text: text},
		BusinessID: businessID,
		UserID:     userID,
		Timestamp:  time.Now(),
	})
}

// GenerateContent processes a content request through the full pipeline.
func (s *AgentService) GenerateContent(ctx context.Context, businessID, contentType, topic string, params map[string]string) *pipeline.AgentResponse {
	return s.Process(ctx, trigger.Trigger{
		Type:       trigger.TypeContentRequest,
		Payload:    trigger.ContentRequest{ContentType: contentType, Topic: topic, Params: params},
		BusinessID: businessID,
		Timestamp:  time.Now(),
	})
}

// Chat processes a conversational message and returns the pipeline response.
// Conversational turns are messages with a chat channel.
func (s *AgentService) Chat(ctx context.Context, businessID, userID, text string) *pipeline.AgentResponse {
	return s.HandleMessage(ctx, businessID, userID, "chat", text)
}

// GetRecommendations queries the recommendation engine directly, without a
// pipeline run.
func (s *AgentService) GetRecommendations(ctx context.Context, businessID string, criteria map[string]string) ([]pipeline.Recommendation, error) {
	var recs []pipeline.Recommendation
	err := s.guards.recommend.Do(ctx, func(ctx context.Context) error {
		var recErr error
		recs, recErr = s.engines.Recommendation.Recommend(ctx, pipeline.RecommendationCriteria{
			BusinessID: businessID,
			Scope:      "on_demand",
			Criteria:   criteria,
		})
		return recErr
	})
	if err != nil {
		return nil, fmt.Errorf("get recommendations: %w", err)
	}
	return recs, nil
}

// ExecuteRecommendation turns a surfaced recommendation into an action and
// runs it through the execution path directly, with the same registry
// bookkeeping and fault isolation as the execute stage.
func (s *AgentService) ExecuteRecommendation(ctx context.Context, businessID string, rec pipeline.Recommendation, params map[string]any) *action.TaskResult {
	rc := pipeline.RequestContext{
		BusinessID: businessID,
		SessionID:  uuid.NewString(),
		Timestamp:  time.Now(),
	}
	act := action.Action{
		ID:         uuid.NewString(),
		Type:       rec.Type,
		Priority:   rec.Priority,
		Parameters: params,
	}

	res := s.executeOne(ctx, act, rc)
	s.learn(ctx, businessID, []action.TaskResult{*res}, nil)
	return res
}

// GenerateInsights runs perception and analysis for a business and returns
// analysis-derived insight strings, without planning or executing anything.
func (s *AgentService) GenerateInsights(ctx context.Context, businessID, timeframe string) ([]string, error) {
	trg := trigger.Trigger{
		Type:       trigger.TypeInsightRequest,
		Payload:    trigger.InsightRequest{Timeframe: timeframe},
		BusinessID: businessID,
		Timestamp:  time.Now(),
	}
	rc := pipeline.NewRequestContext(trg)

	perc, err := s.perceive(ctx, trg, rc)
	if err != nil {
		return nil, err
	}
	analysis, err := s.analyze(ctx, *perc)
	if err != nil {
		return nil, err
	}

	insights := make([]string, 0, len(analysis.Opportunities)+1)
	if analysis.Summary != "" {
		insights = append(insights, analysis.Summary)
	}
	insights = append(insights, analysis.Opportunities...)
	return insights, nil
}
