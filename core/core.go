package core

import "github.com/google/uuid"

// NewID generates a globally unique identifier used for run and tool-call
// correlation.
func NewID() string { return uuid.NewString() }
