// Package service implements the agent core use cases: the six-stage
// processing pipeline, lifecycle control, task bookkeeping, profile caching,
// and resource assessment.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	acotel "github.com/growthframe/agentcore/internal/adapter/otel"
	"github.com/growthframe/agentcore/internal/config"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/trigger"
	"github.com/growthframe/agentcore/internal/logger"
	"github.com/growthframe/agentcore/internal/port/engine"
	"github.com/growthframe/agentcore/internal/port/memorystore"
	"github.com/growthframe/agentcore/internal/port/profilestore"
	"github.com/growthframe/agentcore/internal/resilience"
)

// engineGuards bounds each capability engine with a deadline and breaker.
type engineGuards struct {
	analysis  *resilience.Guard
	planning  *resilience.Guard
	execution *resilience.Guard
	learning  *resilience.Guard
	recommend *resilience.Guard
	memory    *resilience.Guard
}

func newEngineGuards(timeout time.Duration, b config.Breaker) engineGuards {
	g := func(name string) *resilience.Guard {
		return resilience.NewGuard(name, timeout, b.MaxFailures, b.Timeout)
	}
	return engineGuards{
		analysis:  g("analysis engine"),
		planning:  g("planning engine"),
		execution: g("execution engine"),
		learning:  g("learning engine"),
		recommend: g("recommendation engine"),
		memory:    g("memory store"),
	}
}

// AgentService runs the perceive→analyze→plan→decide→execute→learn pipeline.
// One instance processes any number of sequential or concurrent Process
// calls; shared state (registry, cache, budget) is internally synchronized.
type AgentService struct {
	cfg      config.Pipeline
	engines  engine.Engines
	memories memorystore.Store
	profiles *ProfileCache
	metrics  profilestore.MetricsSource
	assessor *Assessor
	registry *Registry
	guards   engineGuards
	otel     *acotel.Metrics // nil when telemetry is disabled
}

// NewAgentService wires the pipeline orchestrator.
func NewAgentService(
	cfg config.Pipeline,
	breaker config.Breaker,
	engines engine.Engines,
	memories memorystore.Store,
	profiles *ProfileCache,
	metrics profilestore.MetricsSource,
	assessor *Assessor,
	registry *Registry,
) *AgentService {
	return &AgentService{
		cfg:      cfg,
		engines:  engines,
		memories: memories,
		profiles: profiles,
		metrics:  metrics,
		assessor: assessor,
		registry: registry,
		guards:   newEngineGuards(cfg.EngineTimeout, breaker),
	}
}

// SetMetrics attaches the OTel instruments. Optional; a nil receiver field
// disables instrumentation.
func (s *AgentService) SetMetrics(m *acotel.Metrics) {
	s.otel = m
}

// Registry exposes the task registry to the lifecycle controller.
func (s *AgentService) Registry() *Registry {
	return s.registry
}

// Process runs one trigger through all six stages in strict order and
// returns a structured response. Faults in the first three stages abort the
// run; the decide, execute, and learn stages never raise past their own
// boundary.
func (s *AgentService) Process(ctx context.Context, trg trigger.Trigger) *pipeline.AgentResponse {
	start := time.Now()
	rc := pipeline.NewRequestContext(trg)
	ctx = logger.WithSessionID(ctx, rc.SessionID)

	ctx, span := acotel.StartPipelineSpan(ctx, rc.SessionID, rc.BusinessID, string(trg.Type))
	defer span.End()

	log := slog.With("session_id", rc.SessionID, "business_id", rc.BusinessID, "trigger", trg.Type)
	log.Info("pipeline started")

	perc, err := s.perceive(ctx, trg, rc)
	if err != nil {
		return s.failPipeline(ctx, span, rc, "perceive", err, start)
	}

	analysis, err := s.analyze(ctx, *perc)
	if err != nil {
		return s.failPipeline(ctx, span, rc, "analyze", err, start)
	}

	pl, err := s.plan(ctx, analysis)
	if err != nil {
		return s.failPipeline(ctx, span, rc, "plan", err, start)
	}

	decision := s.decide(ctx, pl, perc.Profile, rc)

	results, insights := s.execute(ctx, decision, rc)
	recs := s.recommend(ctx, rc, results)

	s.learn(ctx, rc.BusinessID, results, insights)

	elapsed := time.Since(start)
	if s.otel != nil {
		attrs := metric.WithAttributes(attribute.String("business.id", rc.BusinessID))
		s.otel.RequestsProcessed.Add(ctx, 1, attrs)
		s.otel.PipelineDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	log.Info("pipeline completed",
		"approved", len(decision.Approved),
		"rejected", len(decision.Rejected),
		"insights", len(insights),
		"duration", elapsed,
	)

	return &pipeline.AgentResponse{
		Success:         true,
		Actions:         results,
		Insights:        insights,
		Recommendations: recs,
		ProcessingTime:  elapsed,
	}
}

// failPipeline handles an upstream fault: one error_occurred learning event
// is submitted and the response carries the error. The learning submission
// itself is best-effort.
func (s *AgentService) failPipeline(ctx context.Context, span trace.Span, rc pipeline.RequestContext, stage string, err error, start time.Time) *pipeline.AgentResponse {
	span.SetStatus(codes.Error, err.Error())
	slog.Error("pipeline aborted", "session_id", rc.SessionID, "stage", stage, "error", err)

	ev := pipeline.NewErrorEvent(rc, stage, err)
	if subErr := s.guards.learning.Do(ctx, func(ctx context.Context) error {
		return s.engines.Learning.ProcessLearningEvent(ctx, ev)
	}); subErr != nil {
		slog.Error("submit error event", "session_id", rc.SessionID, "error", subErr)
	}

	if s.otel != nil {
		s.otel.RequestsFailed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("business.id", rc.BusinessID),
			attribute.String("stage", stage),
		))
	}

	return &pipeline.AgentResponse{
		Success:        false,
		Error:          err.Error(),
		ProcessingTime: time.Since(start),
	}
}
