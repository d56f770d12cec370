package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/trigger"
	"github.com/growthframe/agentcore/internal/port/engine"
	"github.com/growthframe/agentcore/internal/port/memorystore"
	"github.com/growthframe/agentcore/internal/port/observer"
)

// State is the lifecycle state of the agent controller.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Controller owns the agent's availability window: it sequences startup,
// runs the boot sequence, and drains critical work during shutdown.
type Controller struct {
	mu    sync.Mutex
	state State

	agent    *AgentService
	engines  engine.Engines
	memories memorystore.Store
	profiles *ProfileCache
	registry *Registry
	obs      observer.Observer
}

// NewController creates a stopped lifecycle controller.
func NewController(agent *AgentService, engines engine.Engines, memories memorystore.Store, profiles *ProfileCache, obs observer.Observer) *Controller {
	if obs == nil {
		obs = observer.Multi(nil)
	}
	return &Controller{
		state:    StateStopped,
		agent:    agent,
		engines:  engines,
		memories: memories,
		profiles: profiles,
		registry: agent.Registry(),
		obs:      obs,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start brings the agent to running. Initialization failure of any
// collaborator is fatal; boot sub-step failures are logged and skipped.
// Calling Start on a running controller is a warned no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateRunning || c.state == StateStarting {
		c.mu.Unlock()
		slog.Warn("start requested but agent is already running")
		return nil
	}
	c.state = StateStarting
	c.mu.Unlock()

	if err := c.initCollaborators(ctx); err != nil {
		c.mu.Lock()
		c.state = StateStopped
		c.mu.Unlock()
		return fmt.Errorf("start agent: %w", err)
	}

	c.mu.Lock()
	c.state = StateRunning
	c.mu.Unlock()
	c.obs.Notify(ctx, observer.Event{Type: observer.EventStarted, Timestamp: time.Now()})
	slog.Info("agent started")

	c.boot(ctx)

	c.obs.Notify(ctx, observer.Event{Type: observer.EventReady, Timestamp: time.Now()})
	slog.Info("agent ready")
	return nil
}

// initCollaborators initializes the memory store and every capability engine
// that declares an initializer.
func (c *Controller) initCollaborators(ctx context.Context) error {
	collaborators := []struct {
		name string
		v    any
	}{
		{"memory store", c.memories},
		{"analysis engine", c.engines.Analysis},
		{"planning engine", c.engines.Planning},
		{"execution engine", c.engines.Execution},
		{"learning engine", c.engines.Learning},
		{"recommendation engine", c.engines.Recommendation},
	}

	for _, col := range collaborators {
		init, ok := col.v.(engine.Initializer)
		if !ok {
			continue
		}
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("init %s: %w", col.name, err)
		}
	}
	return nil
}

// boot runs the four startup sub-steps. They are independent: each runs in
// its own goroutine, failures are logged, and the barrier waits for all of
// them to settle.
func (c *Controller) boot(ctx context.Context) {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"warm profile cache", c.bootWarmProfiles},
		{"restore conversation contexts", c.bootRestoreContexts},
		{"startup analysis", c.bootAnalysis},
		{"startup recommendations", c.bootRecommendations},
	}

	var wg sync.WaitGroup
	for _, step := range steps {
		wg.Add(1)
		go func(name string, fn func(context.Context) error) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				slog.Error("boot step failed", "step", name, "error", err)
				return
			}
			slog.Debug("boot step completed", "step", name)
		}(step.name, step.fn)
	}
	wg.Wait()
}

func (c *Controller) bootWarmProfiles(ctx context.Context) error {
	n, err := c.profiles.Warm(ctx)
	if err != nil {
		return err
	}
	slog.Info("profiles preloaded", "count", n)
	return nil
}

func (c *Controller) bootRestoreContexts(ctx context.Context) error {
	records, err := c.memories.SearchLongTerm(ctx, "", "conversation_context", 50)
	if err != nil {
		return err
	}
	slog.Info("pending conversation contexts restored", "count", len(records))
	return nil
}

func (c *Controller) bootAnalysis(ctx context.Context) error {
	trg := trigger.Trigger{
		Type:      trigger.TypeScheduledCheck,
		Payload:   trigger.ScheduledCheck{CheckName: "startup"},
		Timestamp: time.Now(),
	}
	perc := pipeline.Perception{
		Trigger:   trg,
		Context:   pipeline.NewRequestContext(trg),
		Timestamp: time.Now(),
	}

	analysis, err := c.engines.Analysis.Analyze(ctx, perc)
	if err != nil {
		return err
	}
	slog.Info("startup analysis completed", "summary", analysis.Summary)
	return nil
}

func (c *Controller) bootRecommendations(ctx context.Context) error {
	recs, err := c.engines.Recommendation.Recommend(ctx, pipeline.RecommendationCriteria{Scope: "startup"})
	if err != nil {
		return err
	}
	slog.Info("startup recommendations generated", "count", len(recs))
	return nil
}

// Stop drains critical work and brings the agent to stopped. Calling Stop
// on a stopped controller is a no-op and emits no duplicate event.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateStopped || c.state == StateStopping {
		c.mu.Unlock()
		return nil
	}
	c.state = StateStopping
	c.mu.Unlock()

	slog.Info("agent stopping")
	c.drainCritical(ctx)

	if err := c.engines.Learning.PersistLearnings(ctx); err != nil {
		slog.Error("persist learnings during shutdown", "error", err)
	}

	if remaining := c.registry.List(); len(remaining) > 0 {
		slog.Warn("tasks pending at shutdown", "count", len(remaining))
		c.obs.Notify(ctx, observer.Event{
			Type:           observer.EventTasksPending,
			Timestamp:      time.Now(),
			PendingActions: remaining,
		})
	}

	c.mu.Lock()
	c.state = StateStopped
	c.mu.Unlock()
	c.obs.Notify(ctx, observer.Event{Type: observer.EventStopped, Timestamp: time.Now()})
	slog.Info("agent stopped")
	return nil
}

// drainCritical attempts to complete every critical registry entry through
// the execution engine. Completions run concurrently behind an all-settle
// barrier; a failure leaves the action in the registry and never blocks the
// other drains.
func (c *Controller) drainCritical(ctx context.Context) {
	critical := c.registry.ListByPriority(action.PriorityCritical)
	if len(critical) == 0 {
		return
	}
	slog.Info("draining critical tasks", "count", len(critical))

	rc := pipeline.RequestContext{
		BusinessID: "system",
		SessionID:  "shutdown-drain",
		Timestamp:  time.Now(),
	}

	var wg sync.WaitGroup
	for _, act := range critical {
		wg.Add(1)
		go func(act action.Action) {
			defer wg.Done()
			res, err := c.engines.Execution.Execute(ctx, act, rc)
			if err != nil {
				slog.Error("critical task drain failed", "action_id", act.ID, "error", err)
				return
			}
			c.registry.Remove(act.ID)
			slog.Info("critical task drained", "action_id", act.ID, "status", res.Status)
		}(act)
	}
	wg.Wait()
}
