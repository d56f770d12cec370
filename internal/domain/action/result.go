package action

import "time"

// ResultStatus is the terminal outcome of one executed action.
type ResultStatus string

const (
	StatusCompleted ResultStatus = "completed"
	StatusFailed    ResultStatus = "failed"
)

// TaskResult is produced once per executed action. Execution faults never
// escape the per-action boundary; they become a failed result instead.
type TaskResult struct {
	TaskID    string             `json:"task_id"`
	Status    ResultStatus       `json:"status"`
	Output    any                `json:"output,omitempty"`
	Error     string             `json:"error,omitempty"`
	Duration  time.Duration      `json:"duration_ms"`
	Timestamp time.Time          `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Failed builds the failed TaskResult for an action whose execution errored.
// Duration is zero because the work did not complete.
func Failed(a Action, err error) *TaskResult {
	return &TaskResult{
		TaskID:    a.ID,
		Status:    StatusFailed,
		Error:     err.Error(),
		Duration:  0,
		Timestamp: time.Now(),
	}
}
