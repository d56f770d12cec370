// Package resource defines the execution budget model for the agent.
package resource

import "time"

// Budget is a snapshot of the remaining execution allowance inside the
// current window.
type Budget struct {
	TokensRemaining int           `json:"tokens_remaining"`
	CallsRemaining  int           `json:"calls_remaining"`
	WindowRemaining time.Duration `json:"window_remaining"`
}

// Limits configures the per-window execution allowance.
type Limits struct {
	MaxTokens       int           `json:"max_tokens" yaml:"max_tokens"`
	MaxCalls        int           `json:"max_calls" yaml:"max_calls"`
	Window          time.Duration `json:"window" yaml:"window"`
	TokensPerAction int           `json:"tokens_per_action" yaml:"tokens_per_action"`
}

// Exhausted reports whether any budget dimension has run out.
func (b Budget) Exhausted() bool {
	return b.TokensRemaining <= 0 || b.CallsRemaining <= 0 || b.WindowRemaining <= 0
}
