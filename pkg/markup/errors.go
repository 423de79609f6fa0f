package markup

import (
	"errors"
	"fmt"
)

// ErrMalformedTree is matched by every TreeError.
var ErrMalformedTree = errors.New("malformed tree")

// TreeError reports an inconsistent index/parent graph.
type TreeError struct {
	Index  int // offending node or listener index, FragmentIndex when not tied to one
	Reason string
}

func (e *TreeError) Error() string {
	if e.Index == FragmentIndex {
		return fmt.Sprintf("malformed tree: %s", e.Reason)
	}
	return fmt.Sprintf("malformed tree: node %d: %s", e.Index, e.Reason)
}

func (e *TreeError) Is(target error) bool {
	return target == ErrMalformedTree
}

func malformed(index int, format string, args ...any) error {
	return &TreeError{Index: index, Reason: fmt.Sprintf(format, args...)}
}
