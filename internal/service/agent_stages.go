package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	acotel "github.com/growthframe/agentcore/internal/adapter/otel"
	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/memory"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/plan"
	"github.com/growthframe/agentcore/internal/domain/profile"
	"github.com/growthframe/agentcore/internal/domain/trigger"
)

// perceive resolves the business profile, recalls relevant memories, and
// fetches current operational metrics. Any failure aborts the pipeline.
func (s *AgentService) perceive(ctx context.Context, trg trigger.Trigger, rc pipeline.RequestContext) (*pipeline.Perception, error) {
	ctx, span := acotel.StartStageSpan(ctx, "perceive")
	defer span.End()

	prof, err := s.profiles.Get(ctx, rc.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("perceive: %w", err)
	}

	var memories []memory.Record
	if err := s.guards.memory.Do(ctx, func(ctx context.Context) error {
		var recallErr error
		memories, recallErr = s.memories.Recall(ctx, trg.QueryText(), rc)
		return recallErr
	}); err != nil {
		return nil, fmt.Errorf("perceive: recall: %w", err)
	}

	metrics, err := s.metrics.Metrics(ctx, rc.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("perceive: metrics: %w", err)
	}

	return &pipeline.Perception{
		Trigger:   trg,
		Context:   rc,
		Profile:   prof,
		Memories:  memories,
		Metrics:   metrics,
		Timestamp: time.Now(),
	}, nil
}

// analyze passes the perception to the analysis engine.
func (s *AgentService) analyze(ctx context.Context, perc pipeline.Perception) (*pipeline.BusinessAnalysis, error) {
	ctx, span := acotel.StartStageSpan(ctx, "analyze")
	defer span.End()

	var analysis *pipeline.BusinessAnalysis
	if err := s.guards.analysis.Do(ctx, func(ctx context.Context) error {
		var aErr error
		analysis, aErr = s.engines.Analysis.Analyze(ctx, perc)
		return aErr
	}); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return analysis, nil
}

// plan asks the planning engine for a plan under the configured policy
// parameters and clamps the returned confidence into [0,1].
func (s *AgentService) plan(ctx context.Context, analysis *pipeline.BusinessAnalysis) (*plan.Plan, error) {
	ctx, span := acotel.StartStageSpan(ctx, "plan")
	defer span.End()

	opts := plan.Options{
		Horizon:     plan.Horizon(s.cfg.Horizon),
		MaxActions:  s.cfg.MaxActions,
		MinPriority: s.cfg.MinPriority,
	}

	var p *plan.Plan
	if err := s.guards.planning.Do(ctx, func(ctx context.Context) error {
		var pErr error
		p, pErr = s.engines.Planning.Plan(ctx, analysis, opts)
		return pErr
	}); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	p.ClampConfidence()
	return p, nil
}

// decide partitions the plan's actions into approved and rejected sets by
// applying the policy gate, then the resource gate. The partition is
// exhaustive and disjoint: every planned action lands in exactly one set.
func (s *AgentService) decide(ctx context.Context, p *plan.Plan, prof *profile.BusinessProfile, rc pipeline.RequestContext) *plan.ExecutionDecision {
	ctx, span := acotel.StartStageSpan(ctx, "decide")
	defer span.End()

	assessment := s.assessor.Assess(ctx, rc)

	decision := &plan.ExecutionDecision{
		Approved:   []action.Action{},
		Rejected:   []action.Action{},
		Rationale:  p.Rationale,
		Confidence: p.Confidence,
	}

	for _, act := range p.Actions {
		switch {
		case s.cfg.RequiresApproval(act.Type):
			// Policy gate: approval-gated action types run only when the
			// business allows autonomous publishing.
			if prof.Preferences.AutoPublish {
				decision.Approved = append(decision.Approved, act)
			} else {
				slog.Info("action requires human approval",
					"session_id", rc.SessionID, "action_id", act.ID, "type", act.Type)
				decision.Rejected = append(decision.Rejected, act)
			}
		case assessment.CanExecute(act):
			decision.Approved = append(decision.Approved, act)
		default:
			slog.Info("action rejected by resource gate",
				"session_id", rc.SessionID, "action_id", act.ID,
				"tokens_remaining", assessment.Budget.TokensRemaining,
				"calls_remaining", assessment.Budget.CallsRemaining)
			decision.Rejected = append(decision.Rejected, act)
		}
	}

	if s.otel != nil && len(decision.Rejected) > 0 {
		s.otel.ActionsRejected.Add(ctx, int64(len(decision.Rejected)),
			metric.WithAttributes(attribute.String("business.id", rc.BusinessID)))
	}

	return decision
}
