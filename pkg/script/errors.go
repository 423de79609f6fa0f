package script

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is matched by every SyntaxError.
var ErrSyntax = errors.New("script syntax error")

// SyntaxError reports the first position the grammar could not parse.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 1-based
	Reason string
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("%d:%d: %s near %q", e.Line, e.Column, e.Reason, e.Near)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Reason)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// syntaxError locates the first ERROR or missing node under root. shift is
// the number of bytes prepended to the first line of the user's source.
func syntaxError(root *sitter.Node, src []byte, shift int) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	reason := "unexpected input"
	if bad.IsMissing() {
		reason = fmt.Sprintf("missing %s", bad.Type())
	}

	point := bad.StartPoint()
	line := int(point.Row) + 1
	col := int(point.Column) + 1
	if line == 1 {
		col -= shift
		if col < 1 {
			col = 1
		}
	}

	near := bad.Content(src)
	if len(near) > 40 {
		near = near[:40]
	}
	return &SyntaxError{Line: line, Column: col, Reason: reason, Near: near}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if found := firstError(c); found != nil {
			return found
		}
	}
	return nil
}
