package model

import "time"

// TrailEntry records a single mutation of a workflow record.
type TrailEntry struct {
	EntityID string    `json:"entityId" yaml:"entityId"`
	Op       string    `json:"op" yaml:"op"`
	Actor    string    `json:"actor" yaml:"actor"`
	Role     Role      `json:"role" yaml:"role"`
	From     string    `json:"from,omitempty" yaml:"from,omitempty"`
	To       string    `json:"to,omitempty" yaml:"to,omitempty"`
	At       time.Time `json:"at" yaml:"at"`
}
