// Package engine defines the port interfaces for the agent's capability
// engines. Each capability is an external collaborator with a single-method
// contract; the core sequences them but never looks inside.
package engine

import (
	"context"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/plan"
)

// Analysis turns a perception into a business analysis.
type Analysis interface {
	Analyze(ctx context.Context, p pipeline.Perception) (*pipeline.BusinessAnalysis, error)
}

// Planning turns an analysis into a plan of actions under the given options.
type Planning interface {
	Plan(ctx context.Context, a *pipeline.BusinessAnalysis, opts plan.Options) (*plan.Plan, error)
}

// Execution carries out a single approved action.
type Execution interface {
	Execute(ctx context.Context, act action.Action, rc pipeline.RequestContext) (*action.TaskResult, error)
}

// Learning ingests learning events and persists accumulated learnings.
type Learning interface {
	ProcessLearningEvent(ctx context.Context, ev pipeline.LearningEvent) error
	PersistLearnings(ctx context.Context) error
}

// Recommendation produces proactive recommendations matching criteria.
type Recommendation interface {
	Recommend(ctx context.Context, c pipeline.RecommendationCriteria) ([]pipeline.Recommendation, error)
}

// Initializer is implemented by engines that need setup during agent start.
// An initialization error is fatal to the start sequence.
type Initializer interface {
	Init(ctx context.Context) error
}

// Engines bundles the five capability ports for wiring.
type Engines struct {
	Analysis       Analysis
	Planning       Planning
	Execution      Execution
	Learning       Learning
	Recommendation Recommendation
}
