package service_test

import (
	"context"
	"sync"

	"github.com/growthframe/agentcore/internal/domain"
	"github.com/growthframe/agentcore/internal/domain/action"
	"github.com/growthframe/agentcore/internal/domain/memory"
	"github.com/growthframe/agentcore/internal/domain/pipeline"
	"github.com/growthframe/agentcore/internal/domain/plan"
	"github.com/growthframe/agentcore/internal/domain/profile"
	"github.com/growthframe/agentcore/internal/port/observer"
)

// mockCache is a map-backed profile cache.
type mockCache struct {
	mu sync.Mutex
	m  map[string]*profile.BusinessProfile
}

func newMockCache() *mockCache {
	return &mockCache{m: make(map[string]*profile.BusinessProfile)}
}

func (c *mockCache) Get(id string) (*profile.BusinessProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[id]
	return p, ok
}

func (c *mockCache) Set(id string, p *profile.BusinessProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = p
}

func (c *mockCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
}

// mockProfileStore counts loads and serves configured profiles and metrics.
type mockProfileStore struct {
	mu         sync.Mutex
	profiles   map[string]*profile.BusinessProfile
	metrics    map[string]float64
	loads      int
	loadErr    error
	metricsErr error
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{
		profiles: map[string]*profile.BusinessProfile{
			"b1": {ID: "b1", Name: "Acme", Active: true, Preferences: profile.Preferences{AutoPublish: true}},
		},
		metrics: map[string]float64{"open_rate": 0.4},
	}
}

func (s *mockProfileStore) Load(_ context.Context, id string) (*profile.BusinessProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if p, ok := s.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *mockProfileStore) ListActive(_ context.Context) ([]profile.BusinessProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []profile.BusinessProfile
	for _, p := range s.profiles {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *mockProfileStore) Metrics(_ context.Context, _ string) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metricsErr != nil {
		return nil, s.metricsErr
	}
	return s.metrics, nil
}

// mockMemoryStore records stores and serves configured recalls.
type mockMemoryStore struct {
	mu        sync.Mutex
	records   []memory.Record
	stored    []memory.StoreRequest
	recallErr error
	initErr   error
	inited    int
}

func (s *mockMemoryStore) Recall(_ context.Context, _ string, _ pipeline.RequestContext) ([]memory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recallErr != nil {
		return nil, s.recallErr
	}
	return s.records, nil
}

func (s *mockMemoryStore) StoreLongTerm(_ context.Context, req memory.StoreRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, req)
	return nil
}

func (s *mockMemoryStore) SearchLongTerm(_ context.Context, _, _ string, _ int) ([]memory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, nil
}

func (s *mockMemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inited++
	return s.initErr
}

// mockEngines implements all five capability ports with configurable behavior.
type mockEngines struct {
	mu sync.Mutex

	analysis     *pipeline.BusinessAnalysis
	analysisErr  error
	analyzeCalls int

	planResult *plan.Plan
	planErr    error
	planOpts   []plan.Options

	executeFn func(act action.Action) (*action.TaskResult, error)
	executed  []action.Action

	events    []pipeline.LearningEvent
	eventErr  error
	persisted int

	recs   []pipeline.Recommendation
	recErr error

	initErr error
	inited  int
}

func newMockEngines() *mockEngines {
	return &mockEngines{
		analysis:   &pipeline.BusinessAnalysis{Summary: "steady"},
		planResult: &plan.Plan{Confidence: 0.9},
	}
}

func (m *mockEngines) Analyze(_ context.Context, _ pipeline.Perception) (*pipeline.BusinessAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzeCalls++
	if m.analysisErr != nil {
		return nil, m.analysisErr
	}
	return m.analysis, nil
}

func (m *mockEngines) Plan(_ context.Context, _ *pipeline.BusinessAnalysis, opts plan.Options) (*plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planOpts = append(m.planOpts, opts)
	if m.planErr != nil {
		return nil, m.planErr
	}
	cp := *m.planResult
	return &cp, nil
}

func (m *mockEngines) Execute(_ context.Context, act action.Action, _ pipeline.RequestContext) (*action.TaskResult, error) {
	m.mu.Lock()
	m.executed = append(m.executed, act)
	fn := m.executeFn
	m.mu.Unlock()

	if fn != nil {
		return fn(act)
	}
	return &action.TaskResult{TaskID: act.ID, Status: action.StatusCompleted}, nil
}

func (m *mockEngines) ProcessLearningEvent(_ context.Context, ev pipeline.LearningEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventErr != nil {
		return m.eventErr
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *mockEngines) PersistLearnings(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persisted++
	return nil
}

func (m *mockEngines) Recommend(_ context.Context, _ pipeline.RecommendationCriteria) ([]pipeline.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recErr != nil {
		return nil, m.recErr
	}
	return m.recs, nil
}

func (m *mockEngines) Init(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inited++
	return m.initErr
}

func (m *mockEngines) executedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.executed))
	for i, a := range m.executed {
		ids[i] = a.ID
	}
	return ids
}

func (m *mockEngines) eventsOfType(t pipeline.EventType) []pipeline.LearningEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pipeline.LearningEvent
	for _, ev := range m.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// mockObserver records lifecycle events in order.
type mockObserver struct {
	mu     sync.Mutex
	events []observer.Event
}

func (o *mockObserver) Notify(_ context.Context, ev observer.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *mockObserver) ofType(t observer.EventType) []observer.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []observer.Event
	for _, ev := range o.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
