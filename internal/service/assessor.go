package service

import (
	"context"
	"sync"
	"time"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/resource"
)

// Assessor tracks the remaining execution budget for the current window and
// answers whether an action may run. The decide stage takes a fresh
// assessment per invocation; executed actions consume budget afterward.
type Assessor struct {
	mu          sync.Mutex
	limits      resource.Limits
	tokensUsed  int
	callsUsed   int
	windowStart time.Time
	now         func() time.Time // for testing
}

// NewAssessor creates an assessor with a fresh window.
func NewAssessor(limits resource.Limits) *Assessor {
	a := &Assessor{limits: limits, now: time.Now}
	a.windowStart = a.now()
	return a
}

// Assessment is a point-in-time view of the remaining budget. It answers
// CanExecute against the budget as it stood at assessment time.
type Assessment struct {
	Budget          resource.Budget
	tokensPerAction int
}

// Assess returns the remaining budget for the request. The window rolls
// over when its duration has elapsed.
func (a *Assessor) Assess(_ context.Context, _ pipeline.RequestContext) Assessment {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollWindowLocked()

	remaining := a.limits.Window - a.now().Sub(a.windowStart)
	return Assessment{
		Budget: resource.Budget{
			TokensRemaining: a.limits.MaxTokens - a.tokensUsed,
			CallsRemaining:  a.limits.MaxCalls - a.callsUsed,
			WindowRemaining: remaining,
		},
		tokensPerAction: a.limits.TokensPerAction,
	}
}

// CanExecute reports whether the action fits the assessed budget.
func (as Assessment) CanExecute(_ action.Action) bool {
	if as.Budget.Exhausted() {
		return false
	}
	return as.Budget.TokensRemaining >= as.tokensPerAction && as.Budget.CallsRemaining >= 1
}

// Consume debits the budget for one executed action.
func (a *Assessor) Consume(res *action.TaskResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollWindowLocked()
	a.callsUsed++

	// Prefer the engine-reported cost; fall back to the configured estimate.
	if tokens, ok := res.Metrics["tokens_used"]; ok && tokens > 0 {
		a.tokensUsed += int(tokens)
		return
	}
	a.tokensUsed += a.limits.TokensPerAction
}

// rollWindowLocked resets usage when the window has elapsed. Caller holds the lock.
func (a *Assessor) rollWindowLocked() {
	if a.now().Sub(a.windowStart) >= a.limits.Window {
		a.windowStart = a.now()
		a.tokensUsed = 0
		a.callsUsed = 0
	}
}
