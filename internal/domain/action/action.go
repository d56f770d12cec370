// Package action defines the Action domain entity: a planned unit of work
// with a priority and parameters.
package action

// Priority orders actions by urgency. Critical actions must be completed
// even during shutdown.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank returns the numeric order of a priority. Unknown priorities rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// AtLeast reports whether p is min or higher.
func (p Priority) AtLeast(min Priority) bool {
	return p.Rank() >= min.Rank()
}

// Action is one unit of work produced by the planning stage. The pipeline
// owns it until it is executed or discarded.
type Action struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Priority   Priority       `json:"priority"`
	Parameters map[string]any `json:"parameters,omitempty"`
}
