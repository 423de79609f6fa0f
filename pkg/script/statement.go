// Package script parses the JavaScript body of a component into a list of
// statements that can be rewritten and printed back. Statements keep their
// exact source text; nested statements are tracked as spans into that text
// so that an untouched statement prints byte for byte.
package script

import (
	"regexp"
	"strings"
)

// KindExpression marks a pseudo statement built from a bare expression, such
// as an event handler or the expression body of an arrow function.
const KindExpression = "expression"

// Statement is one parsed statement.
type Statement struct {
	// Kind is the grammar node type, e.g. "expression_statement".
	Kind   string
	Source string

	// Assign is set when the statement is a write to a bare identifier.
	Assign *Assignment

	// Declares lists the names a top-level statement binds.
	Declares []string
	// Exported lists the declarators of an `export let` / `export var`.
	Exported []Declarator
	// Shadowed lists names bound by the scopes enclosing a nested statement.
	Shadowed []string

	Nested []Span
}

// Span places a nested statement inside its parent's Source.
type Span struct {
	Start, End int
	Statement  *Statement
}

// Assignment describes `target = value`, `target op= value`, `target++` or
// `target--`.
type Assignment struct {
	Target   string
	Operator string
	Value    string // empty for ++ and --

	valueStart, valueEnd int // offsets of Value in the statement Source
}

// Declarator is one `name = init` pair of a declaration.
type Declarator struct {
	Name string `json:"name"`
	Init string `json:"init,omitempty"`
}

// String renders the statement with its nested statements spliced in.
func (s *Statement) String() string {
	if len(s.Nested) == 0 {
		return s.Source
	}
	var b strings.Builder
	pos := 0
	for _, sp := range s.Nested {
		b.WriteString(s.Source[pos:sp.Start])
		b.WriteString(sp.Statement.String())
		pos = sp.End
	}
	b.WriteString(s.Source[pos:])
	return b.String()
}

// Shadows reports whether name is rebound by an enclosing scope.
func (s *Statement) Shadows(name string) bool {
	for _, n := range s.Shadowed {
		if n == name {
			return true
		}
	}
	return false
}

// Map returns a copy of s where fn has been applied to s and then to every
// nested statement of the result, in source order. fn returns its argument
// to keep a statement. The receiver is never modified.
func (s *Statement) Map(fn func(*Statement) *Statement) *Statement {
	out := fn(s)
	if len(out.Nested) == 0 {
		return out
	}
	mapped := make([]Span, len(out.Nested))
	changed := out != s
	for i, sp := range out.Nested {
		next := sp.Statement.Map(fn)
		if next != sp.Statement {
			changed = true
		}
		mapped[i] = Span{Start: sp.Start, End: sp.End, Statement: next}
	}
	if !changed {
		return s
	}
	cp := *out
	cp.Nested = mapped
	return &cp
}

var simpleOperand = regexp.MustCompile(`^[A-Za-z0-9_$.]+$`)

// NewValue returns the expression source the target holds after the
// assignment runs: the right-hand side for `=`, `target op value` for
// compound operators, `target + 1` / `target - 1` for ++ / --.
func (a *Assignment) NewValue() string {
	head, tail := a.wrap()
	return head + a.Value + tail
}

func (a *Assignment) wrap() (head, tail string) {
	switch a.Operator {
	case "=":
		return "", ""
	case "++":
		return a.Target + " + 1", ""
	case "--":
		return a.Target + " - 1", ""
	}
	op := strings.TrimSuffix(a.Operator, "=")
	if simpleOperand.MatchString(strings.TrimSpace(a.Value)) {
		return a.Target + " " + op + " ", ""
	}
	return a.Target + " " + op + " (", ")"
}

// CallWith returns a statement that passes the assignment's new value to
// callee instead of writing the target. Statements nested in the value keep
// their spans. A trailing semicolon is preserved. It panics if s is not an
// assignment.
func (s *Statement) CallWith(callee string) *Statement {
	a := s.Assign
	if a == nil {
		panic("script: CallWith on a statement that is not an assignment")
	}
	head, tail := a.wrap()
	prefix := callee + "(" + head
	var b strings.Builder
	b.WriteString(prefix)
	if a.valueEnd > a.valueStart {
		b.WriteString(s.Source[a.valueStart:a.valueEnd])
	}
	b.WriteString(tail)
	b.WriteString(")")
	if strings.HasSuffix(strings.TrimSpace(s.Source), ";") {
		b.WriteString(";")
	}

	shift := len(prefix) - a.valueStart
	var nested []Span
	for _, sp := range s.Nested {
		if sp.Start < a.valueStart || sp.End > a.valueEnd {
			continue
		}
		nested = append(nested, Span{Start: sp.Start + shift, End: sp.End + shift, Statement: sp.Statement})
	}

	return &Statement{
		Kind:     s.Kind,
		Source:   b.String(),
		Shadowed: s.Shadowed,
		Nested:   nested,
	}
}

// Print renders a statement list, one statement per line.
func Print(stmts []*Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// Declared returns every name bound by the top-level statements, in order.
func Declared(stmts []*Statement) []string {
	var names []string
	for _, s := range stmts {
		names = append(names, s.Declares...)
	}
	return names
}

// ExtractProps splits `export let` / `export var` declarations, which declare
// component inputs, from the rest of the body.
func ExtractProps(stmts []*Statement) (props []Declarator, rest []*Statement) {
	for _, s := range stmts {
		if len(s.Exported) > 0 {
			props = append(props, s.Exported...)
			continue
		}
		rest = append(rest, s)
	}
	return props, rest
}
