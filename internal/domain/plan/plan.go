// Package plan defines the Plan produced by the planning stage and the
// ExecutionDecision derived from it during the decide stage.
package plan

import (
	"fmt"

	"github.com/growthframe/agentcore/internal/domain/action"
)

// Horizon is the planning time horizon.
type Horizon string

const (
	HorizonImmediate Horizon = "immediate"
	HorizonShortTerm Horizon = "short_term"
	HorizonLongTerm  Horizon = "long_term"
)

// Options are the policy parameters handed to the planning engine.
type Options struct {
	Horizon     Horizon         `json:"horizon"`
	MaxActions  int             `json:"max_actions"`
	MinPriority action.Priority `json:"min_priority"`
}

// Plan is the planning engine's output: a set of proposed actions with a
// rationale and a confidence score in [0,1].
type Plan struct {
	Actions    []action.Action `json:"actions"`
	Rationale  string          `json:"rationale"`
	Confidence float64         `json:"confidence"`
}

// ClampConfidence forces the confidence score into [0,1].
func (p *Plan) ClampConfidence() {
	if p.Confidence < 0 {
		p.Confidence = 0
	}
	if p.Confidence > 1 {
		p.Confidence = 1
	}
}

// ExecutionDecision is the exhaustive, disjoint partition of a plan's actions
// into approved and rejected sets.
type ExecutionDecision struct {
	Approved   []action.Action `json:"approved_actions"`
	Rejected   []action.Action `json:"rejected_actions"`
	Rationale  string          `json:"rationale"`
	Confidence float64         `json:"confidence"`
}

// ValidatePartition checks the core decision invariant: approved and rejected
// together cover exactly the plan's actions, with no duplicates and no overlap.
func (d *ExecutionDecision) ValidatePartition(p *Plan) error {
	if got, want := len(d.Approved)+len(d.Rejected), len(p.Actions); got != want {
		return fmt.Errorf("partition size mismatch: %d approved+rejected, %d planned", got, want)
	}

	seen := make(map[string]bool, len(p.Actions))
	for _, a := range append(append([]action.Action{}, d.Approved...), d.Rejected...) {
		if seen[a.ID] {
			return fmt.Errorf("action %s appears twice in decision", a.ID)
		}
		seen[a.ID] = true
	}
	for _, a := range p.Actions {
		if !seen[a.ID] {
			return fmt.Errorf("planned action %s missing from decision", a.ID)
		}
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %f out of [0,1]", d.Confidence)
	}
	return nil
}
