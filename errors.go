package hsmsnap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by queries and Dispatch on a machine
	// whose Start has not completed.
	ErrNotInitialized = errors.New("machine not started")

	// ErrUnknownState is returned when an ID names no state of the
	// machine's tree.
	ErrUnknownState = errors.New("unknown state")

	// ErrUnknownRegion is returned by Current for an out-of-range region
	// index.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrModelMismatch is returned by a Projector applied to a machine
	// built from a different model.
	ErrModelMismatch = errors.New("machine belongs to a different model")
)

// StructuralError reports a defect in a chart or state tree found at build
// time: a duplicate ID, a parent that names no state, a membership cycle,
// or a root count other than one. State is empty when the defect is not
// tied to a single state.
type StructuralError struct {
	State  StateID
	Reason string
}

func (e *StructuralError) Error() string {
	if e.State == "" {
		return e.Reason
	}
	return fmt.Sprintf("state %q: %s", e.State, e.Reason)
}

func structErr(id StateID, format string, args ...any) *StructuralError {
	return &StructuralError{State: id, Reason: fmt.Sprintf(format, args...)}
}
