package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/port/engine"
	"github.com/growthframe/agentcore/internal/port/observer"
	"github.com/growthframe/agentcore/internal/service"
)

type testController struct {
	ctl      *service.Controller
	agent    *testAgent
	observer *mockObserver
}

func newTestController(t *testing.T) *testController {
	t.Helper()

	ta := newTestAgent(t, defaultLimits())
	obs := &mockObserver{}
	ctl := service.NewController(
		ta.svc,
		engine.Engines{
			Analysis:       ta.engines,
			Planning:       ta.engines,
			Execution:      ta.engines,
			Learning:       ta.engines,
			Recommendation: ta.engines,
		},
		ta.memories,
		service.NewProfileCache(newMockCache(), ta.profiles),
		obs,
	)
	return &testController{ctl: ctl, agent: ta, observer: obs}
}

func TestControllerStartStop(t *testing.T) {
	tc := newTestController(t)
	ctx := context.Background()

	if got := tc.ctl.State(); got != service.StateStopped {
		t.Fatalf("initial state = %s, want stopped", got)
	}

	if err := tc.ctl.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := tc.ctl.State(); got != service.StateRunning {
		t.Fatalf("state after start = %s, want running", got)
	}
	if got := len(tc.observer.ofType(observer.EventStarted)); got != 1 {
		t.Errorf("got %d started events, want 1", got)
	}
	if got := len(tc.observer.ofType(observer.EventReady)); got != 1 {
		t.Errorf("got %d ready events, want 1", got)
	}

	tc.agent.memories.mu.Lock()
	memInits := tc.agent.memories.inited
	tc.agent.memories.mu.Unlock()
	if memInits != 1 {
		t.Errorf("memory store initialized %d times, want 1", memInits)
	}

	if err := tc.ctl.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := tc.ctl.State(); got != service.StateStopped {
		t.Fatalf("state after stop = %s, want stopped", got)
	}
	if got := len(tc.observer.ofType(observer.EventStopped)); got != 1 {
		t.Errorf("got %d stopped events, want 1", got)
	}

	tc.agent.engines.mu.Lock()
	persisted := tc.agent.engines.persisted
	tc.agent.engines.mu.Unlock()
	if persisted != 1 {
		t.Errorf("learnings persisted %d times, want 1", persisted)
	}
}

func TestControllerStartWhileRunning(t *testing.T) {
	tc := newTestController(t)
	ctx := context.Background()

	if err := tc.ctl.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tc.agent.engines.mu.Lock()
	bootCalls := tc.agent.engines.analyzeCalls
	tc.agent.engines.mu.Unlock()

	if err := tc.ctl.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	if got := len(tc.observer.ofType(observer.EventStarted)); got != 1 {
		t.Errorf("got %d started events after double start, want 1", got)
	}
	tc.agent.engines.mu.Lock()
	rerun := tc.agent.engines.analyzeCalls
	tc.agent.engines.mu.Unlock()
	if rerun != bootCalls {
		t.Errorf("boot sequence re-ran: %d analyze calls, want %d", rerun, bootCalls)
	}
	if got := tc.ctl.State(); got != service.StateRunning {
		t.Errorf("state = %s, want running", got)
	}
}

func TestControllerStartInitFailure(t *testing.T) {
	tc := newTestController(t)
	tc.agent.memories.initErr = errors.New("schema migration pending")

	err := tc.ctl.Start(context.Background())
	if err == nil {
		t.Fatal("expected start failure")
	}
	if got := tc.ctl.State(); got != service.StateStopped {
		t.Errorf("state after failed start = %s, want stopped", got)
	}
	if got := len(tc.observer.ofType(observer.EventStarted)); got != 0 {
		t.Errorf("got %d started events after failed start, want 0", got)
	}
}

func TestControllerBootStepFailureIsNotFatal(t *testing.T) {
	tc := newTestController(t)
	tc.agent.engines.analysisErr = errors.New("model offline")
	tc.agent.engines.recErr = errors.New("recommender offline")

	if err := tc.ctl.Start(context.Background()); err != nil {
		t.Fatalf("boot step failures must not fail start: %v", err)
	}
	if got := tc.ctl.State(); got != service.StateRunning {
		t.Errorf("state = %s, want running", got)
	}
	if got := len(tc.observer.ofType(observer.EventReady)); got != 1 {
		t.Errorf("got %d ready events, want 1", got)
	}
}

func TestControllerStopIdempotent(t *testing.T) {
	tc := newTestController(t)
	ctx := context.Background()

	if err := tc.ctl.Stop(ctx); err != nil {
		t.Fatalf("Stop on stopped controller: %v", err)
	}
	if got := len(tc.observer.events); got != 0 {
		t.Fatalf("got %d events from no-op stop, want 0", got)
	}

	if err := tc.ctl.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tc.ctl.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := tc.ctl.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if got := len(tc.observer.ofType(observer.EventStopped)); got != 1 {
		t.Errorf("got %d stopped events after double stop, want 1", got)
	}
}

func TestControllerDrainsCriticalTasks(t *testing.T) {
	tc := newTestController(t)
	ctx := context.Background()

	if err := tc.ctl.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	reg := tc.agent.registry
	reg.Put(action.Action{ID: "c1", Type: "send_campaign", Priority: action.PriorityCritical})
	reg.Put(action.Action{ID: "c2", Type: "publish_content", Priority: action.PriorityCritical})
	reg.Put(action.Action{ID: "n1", Type: "analyze_metrics", Priority: action.PriorityLow})
	reg.Put(action.Action{ID: "n2", Type: "draft_reply", Priority: action.PriorityMedium})
	reg.Put(action.Action{ID: "n3", Type: "update_profile", Priority: action.PriorityHigh})

	if err := tc.ctl.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	executed := make(map[string]bool)
	for _, id := range tc.agent.engines.executedIDs() {
		executed[id] = true
	}
	if !executed["c1"] || !executed["c2"] {
		t.Errorf("critical tasks not drained, executed %v", executed)
	}
	if executed["n1"] || executed["n2"] || executed["n3"] {
		t.Errorf("non-critical tasks executed during drain: %v", executed)
	}

	pending := tc.observer.ofType(observer.EventTasksPending)
	if len(pending) != 1 {
		t.Fatalf("got %d tasks_pending events, want 1", len(pending))
	}
	if got, want := len(pending[0].PendingActions), 3; got != want {
		t.Errorf("tasks_pending carries %d actions, want %d", got, want)
	}
	for _, a := range pending[0].PendingActions {
		if a.Priority == action.PriorityCritical {
			t.Errorf("drained critical action %s still pending", a.ID)
		}
	}
}

func TestControllerDrainFailureLeavesTaskPending(t *testing.T) {
	tc := newTestController(t)
	ctx := context.Background()

	if err := tc.ctl.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tc.agent.engines.executeFn = func(act action.Action) (*action.TaskResult, error) {
		if act.ID == "c2" {
			return nil, errors.New("downstream unavailable")
		}
		return &action.TaskResult{TaskID: act.ID, Status: action.StatusCompleted}, nil
	}

	reg := tc.agent.registry
	reg.Put(action.Action{ID: "c1", Type: "send_campaign", Priority: action.PriorityCritical})
	reg.Put(action.Action{ID: "c2", Type: "send_campaign", Priority: action.PriorityCritical})

	if err := tc.ctl.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := tc.ctl.State(); got != service.StateStopped {
		t.Fatalf("state = %s, want stopped despite drain failure", got)
	}

	pending := tc.observer.ofType(observer.EventTasksPending)
	if len(pending) != 1 {
		t.Fatalf("got %d tasks_pending events, want 1", len(pending))
	}
	if got, want := len(pending[0].PendingActions), 1; got != want {
		t.Fatalf("tasks_pending carries %d actions, want %d", got, want)
	}
	if pending[0].PendingActions[0].ID != "c2" {
		t.Errorf("pending action = %s, want c2", pending[0].PendingActions[0].ID)
	}
}
