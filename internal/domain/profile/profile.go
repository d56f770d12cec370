// Package profile defines the BusinessProfile domain entity.
package profile

import "time"

// Preferences holds per-business behavior switches.
type Preferences struct {
	// AutoPublish allows the agent to run approval-gated action types
	// without a human in the loop.
	AutoPublish bool     `json:"auto_publish"`
	Tone        string   `json:"tone,omitempty"`
	Channels    []string `json:"channels,omitempty"`
}

// BusinessProfile describes one business served by the agent. Profiles are
// loaded once and cached for the process lifetime.
type BusinessProfile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Industry    string      `json:"industry,omitempty"`
	Description string      `json:"description,omitempty"`
	Preferences Preferences `json:"preferences"`
	Active      bool        `json:"active"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
