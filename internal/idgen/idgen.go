package idgen

import "github.com/google/uuid"

// NewFunc produces opaque identifiers; tests replace it for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns an opaque unique identifier used for notifications and event
// envelopes.
func New() string { return NewFunc() }
