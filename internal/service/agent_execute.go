package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	acotel "github.com/growthframe/agentcore/internal/adapter/otel"
	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/memory"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/plan"
)

// execute runs every approved action in plan order. Each invocation is
// fault-isolated: an engine error becomes a failed TaskResult and the loop
// moves on. Execution is sequential so side-effect ordering stays
// deterministic.
func (s *AgentService) execute(ctx context.Context, decision *plan.ExecutionDecision, rc pipeline.RequestContext) ([]action.TaskResult, []string) {
	ctx, span := acotel.StartStageSpan(ctx, "execute")
	defer span.End()

	results := make([]action.TaskResult, 0, len(decision.Approved))
	var insights []string

	for _, act := range decision.Approved {
		res := s.executeOne(ctx, act, rc)
		results = append(results, *res)
		insights = append(insights, s.deriveInsights(res)...)
	}

	return results, insights
}

// executeOne dispatches a single action through the execution engine,
// keeping it visible in the task registry while it is in flight.
func (s *AgentService) executeOne(ctx context.Context, act action.Action, rc pipeline.RequestContext) *action.TaskResult {
	s.registry.Put(act)
	defer s.registry.Remove(act.ID)

	started := time.Now()
	var res *action.TaskResult
	err := s.guards.execution.Do(ctx, func(ctx context.Context) error {
		var execErr error
		res, execErr = s.engines.Execution.Execute(ctx, act, rc)
		return execErr
	})
	if err != nil {
		slog.Error("action execution failed",
			"session_id", rc.SessionID, "action_id", act.ID, "type", act.Type, "error", err)
		if s.otel != nil {
			s.otel.ActionsFailed.Add(ctx, 1, metric.WithAttributes(
				attribute.String("business.id", rc.BusinessID),
				attribute.String("action.type", act.Type),
			))
		}
		return action.Failed(act, err)
	}

	if res.TaskID == "" {
		res.TaskID = act.ID
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}
	if res.Duration == 0 {
		res.Duration = time.Since(started)
	}

	s.assessor.Consume(res)
	if s.otel != nil {
		s.otel.ActionsExecuted.Add(ctx, 1, metric.WithAttributes(
			attribute.String("business.id", rc.BusinessID),
			attribute.String("action.type", act.Type),
		))
	}
	return res
}

// deriveInsights turns a completed result's metrics into human-readable
// insight strings. Failed results yield none.
func (s *AgentService) deriveInsights(res *action.TaskResult) []string {
	if res.Status != action.StatusCompleted || len(res.Metrics) == 0 {
		return nil
	}

	var insights []string
	if sat, ok := res.Metrics["user_satisfaction"]; ok && sat >= s.cfg.SatisfactionThreshold {
		insights = append(insights,
			fmt.Sprintf("High user satisfaction (%.0f%%) on %s", sat*100, res.TaskID))
	}
	if eng, ok := res.Metrics["engagement_rate"]; ok && eng >= s.cfg.SatisfactionThreshold {
		insights = append(insights,
			fmt.Sprintf("Strong engagement (%.0f%%) on %s", eng*100, res.TaskID))
	}
	return insights
}

// recommend requests proactive recommendations seeded with the run's result
// set. A recommendation failure never fails the pipeline.
func (s *AgentService) recommend(ctx context.Context, rc pipeline.RequestContext, results []action.TaskResult) []pipeline.Recommendation {
	var recs []pipeline.Recommendation
	err := s.guards.recommend.Do(ctx, func(ctx context.Context) error {
		var recErr error
		recs, recErr = s.engines.Recommendation.Recommend(ctx, pipeline.RecommendationCriteria{
			BusinessID: rc.BusinessID,
			Scope:      "proactive",
			Results:    results,
		})
		return recErr
	})
	if err != nil {
		slog.Warn("recommendation request failed", "session_id", rc.SessionID, "error", err)
		return nil
	}
	return recs
}

// learn fans one action_result event per task result out to the learning
// engine and persists the run's insights into long-term memory. Submissions
// are independent, so they run concurrently behind an all-settle barrier;
// individual failures are logged and never cancel their siblings.
func (s *AgentService) learn(ctx context.Context, businessID string, results []action.TaskResult, insights []string) {
	ctx, span := acotel.StartStageSpan(ctx, "learn")
	defer span.End()

	var wg sync.WaitGroup
	for _, res := range results {
		wg.Add(1)
		go func(res action.TaskResult) {
			defer wg.Done()
			ev := pipeline.NewActionResultEvent(businessID, res)
			if err := s.guards.learning.Do(ctx, func(ctx context.Context) error {
				return s.engines.Learning.ProcessLearningEvent(ctx, ev)
			}); err != nil {
				slog.Error("submit learning event", "task_id", res.TaskID, "error", err)
			}
		}(res)
	}
	wg.Wait()

	now := time.Now()
	for _, insight := range insights {
		req := memory.StoreRequest{
			BusinessID: businessID,
			Content:    insight,
			Tags:       []string{"insight"},
			Confidence: s.cfg.InsightConfidence,
			Timestamp:  now,
		}
		if err := s.guards.memory.Do(ctx, func(ctx context.Context) error {
			return s.memories.StoreLongTerm(ctx, req)
		}); err != nil {
			slog.Error("persist insight", "business_id", businessID, "error", err)
		}
	}
}
