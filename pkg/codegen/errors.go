package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedBinding is matched by every BindingError.
	ErrUnresolvedBinding = errors.New("unresolved binding")
	// ErrUnsupportedEvent is matched by every EventError.
	ErrUnsupportedEvent = errors.New("unsupported event kind")
	// ErrInvalidName is returned for a component name that cannot become a
	// JavaScript identifier.
	ErrInvalidName = errors.New("invalid component name")
)

// BindingError reports a binding node whose name is neither a declared prop,
// a state binding nor a name declared by the script.
type BindingError struct {
	Index int
	Name  string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("node %d: binding %q does not name a prop or a script declaration", e.Index, e.Name)
}

func (e *BindingError) Is(target error) bool {
	return target == ErrUnresolvedBinding
}

// EventError reports a listener whose event has no JSX counterpart.
type EventError struct {
	Index int
	Event string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("node %d: no JSX handler for event %q", e.Index, e.Event)
}

func (e *EventError) Is(target error) bool {
	return target == ErrUnsupportedEvent
}
