package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/plan"
	"github.com/growthframe/agentcore/internal/logger"
	"github.com/growthframe/agentcore/internal/port/engine"
)

// Capability engine subjects. Workers implementing the reasoning side
// subscribe to these and reply with JSON payloads.
const (
	SubjectAnalyze      = "engine.analyze"
	SubjectPlan         = "engine.plan"
	SubjectExecute      = "engine.execute"
	SubjectLearnEvent   = "learning.event"
	SubjectLearnPersist = "engine.learn.persist"
	SubjectRecommend    = "engine.recommend"
)

// headerSessionID carries the pipeline session ID on outbound messages so
// workers can correlate their logs with the originating run.
const headerSessionID = "Session-Id"

// sessionMsg builds an outbound message tagged with the session ID from the
// context, when one is set.
func sessionMsg(ctx context.Context, subject string, data []byte) *nats.Msg {
	msg := nats.NewMsg(subject)
	msg.Data = data
	if id := logger.SessionID(ctx); id != "" {
		msg.Header.Set(headerSessionID, id)
	}
	return msg
}

// Engines implements all five capability engine ports by delegating to
// NATS-resident workers. The reasoning stays opaque to the core; this
// adapter only moves typed payloads.
type Engines struct {
	client *Client
}

// NewEngines creates the NATS-backed capability engines.
func NewEngines(client *Client) *Engines {
	return &Engines{client: client}
}

// Bundle returns the engines wired into an engine.Engines value.
func (e *Engines) Bundle() engine.Engines {
	return engine.Engines{
		Analysis:       e,
		Planning:       e,
		Execution:      e,
		Learning:       e,
		Recommendation: e,
	}
}

// request performs one JSON request-reply round trip.
func (e *Engines) request(ctx context.Context, subject string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", subject, err)
	}

	msg, err := e.client.nc.RequestMsgWithContext(ctx, sessionMsg(ctx, subject, data))
	if err != nil {
		return fmt.Errorf("request %s: %w", subject, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		return fmt.Errorf("decode %s reply: %w", subject, err)
	}
	return nil
}

// Analyze delegates to the analysis worker.
func (e *Engines) Analyze(ctx context.Context, p pipeline.Perception) (*pipeline.BusinessAnalysis, error) {
	var out pipeline.BusinessAnalysis
	if err := e.request(ctx, SubjectAnalyze, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Plan delegates to the planning worker.
func (e *Engines) Plan(ctx context.Context, a *pipeline.BusinessAnalysis, opts plan.Options) (*plan.Plan, error) {
	in := struct {
		Analysis *pipeline.BusinessAnalysis `json:"analysis"`
		Options  plan.Options               `json:"options"`
	}{a, opts}

	var out plan.Plan
	if err := e.request(ctx, SubjectPlan, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Execute delegates one action to the execution worker.
func (e *Engines) Execute(ctx context.Context, act action.Action, rc pipeline.RequestContext) (*action.TaskResult, error) {
	in := struct {
		Action  action.Action           `json:"action"`
		Context pipeline.RequestContext `json:"context"`
	}{act, rc}

	var out action.TaskResult
	if err := e.request(ctx, SubjectExecute, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessLearningEvent hands one event to the learning worker. Events are
// fire-and-forget from the worker's perspective, but delivery is confirmed
// through JetStream.
func (e *Engines) ProcessLearningEvent(ctx context.Context, ev pipeline.LearningEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal learning event: %w", err)
	}
	if _, err := e.client.js.PublishMsg(ctx, sessionMsg(ctx, SubjectLearnEvent, data)); err != nil {
		return fmt.Errorf("publish learning event: %w", err)
	}
	return nil
}

// PersistLearnings asks the learning worker to flush its accumulated state.
func (e *Engines) PersistLearnings(ctx context.Context) error {
	return e.request(ctx, SubjectLearnPersist, struct{}{}, nil)
}

// Recommend delegates to the recommendation worker.
func (e *Engines) Recommend(ctx context.Context, c pipeline.RecommendationCriteria) ([]pipeline.Recommendation, error) {
	var out []pipeline.Recommendation
	if err := e.request(ctx, SubjectRecommend, c, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Init verifies the NATS connection is usable before the agent reports running.
func (e *Engines) Init(_ context.Context) error {
	if status := e.client.nc.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats connection not ready: %s", status)
	}
	return nil
}
