package codegen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/recera/reactify/pkg/markup"
	"github.com/recera/reactify/pkg/script"
)

// StateBinding is the local state that replaces writes to a prop.
type StateBinding struct {
	Name   string `json:"name"`
	Prop   string `json:"prop"`
	Setter string `json:"setter"`
}

// hoister rewrites prop assignments into setter calls and records the state
// bindings it creates, in discovery order.
type hoister struct {
	props    map[string]bool
	taken    map[string]bool
	bindings []StateBinding
	byProp   map[string]int
}

func newHoister(props []Prop, declared []string) *hoister {
	h := &hoister{
		props:  make(map[string]bool, len(props)),
		taken:  make(map[string]bool, len(props)+len(declared)),
		byProp: make(map[string]int),
	}
	for _, p := range props {
		h.props[p.Name] = true
		h.taken[p.Name] = true
	}
	for _, name := range declared {
		h.taken[name] = true
	}
	return h
}

// bind returns the binding for prop, creating it on first use.
func (h *hoister) bind(prop string) StateBinding {
	if i, ok := h.byProp[prop]; ok {
		return h.bindings[i]
	}

	name := prop + "State"
	for n := 2; h.taken[name] || h.taken[setterName(name)]; n++ {
		name = prop + "State" + strconv.Itoa(n)
	}
	b := StateBinding{Name: name, Prop: prop, Setter: setterName(name)}
	h.taken[b.Name] = true
	h.taken[b.Setter] = true

	h.byProp[prop] = len(h.bindings)
	h.bindings = append(h.bindings, b)
	return b
}

func setterName(name string) string {
	return "set" + capitalize(name)
}

// rewrite is applied to every statement, nested ones included.
func (h *hoister) rewrite(s *script.Statement) *script.Statement {
	a := s.Assign
	if a == nil || !h.props[a.Target] || s.Shadows(a.Target) {
		return s
	}
	return s.CallWith(h.bind(a.Target).Setter)
}

// statements returns the rewritten script body. Reactive `$:` statements are
// passed through.
func (h *hoister) statements(stmts []*script.Statement) []*script.Statement {
	out := make([]*script.Statement, len(stmts))
	for i, s := range stmts {
		if isReactive(s) {
			out[i] = s
			continue
		}
		out[i] = s.Map(h.rewrite)
	}
	return out
}

func isReactive(s *script.Statement) bool {
	return s.Kind == "labeled_statement" && strings.HasPrefix(s.Source, "$")
}

// listeners returns copies of the listeners whose handlers have been
// rewritten like script statements.
func (h *hoister) listeners(ctx context.Context, listeners []markup.Listener) ([]markup.Listener, error) {
	out := make([]markup.Listener, len(listeners))
	for i, l := range listeners {
		handler, err := script.ParseExpression(ctx, l.Handler)
		if err != nil {
			return nil, fmt.Errorf("node %d: %s handler: %w", l.Index, l.Event, err)
		}
		out[i] = markup.Listener{
			Index:   l.Index,
			Event:   l.Event,
			Handler: handler.Map(h.rewrite).String(),
		}
	}
	return out, nil
}

// renames maps each hoisted prop to its state name.
func (h *hoister) renames() map[string]string {
	m := make(map[string]string, len(h.bindings))
	for _, b := range h.bindings {
		m[b.Prop] = b.Name
	}
	return m
}

// prelude returns the state declarations followed by the effects that keep
// them in sync with the props.
func (h *hoister) prelude() []string {
	lines := make([]string, 0, 2*len(h.bindings))
	for _, b := range h.bindings {
		lines = append(lines, fmt.Sprintf("const [%s, %s] = useState(%s);", b.Name, b.Setter, b.Prop))
	}
	for _, b := range h.bindings {
		lines = append(lines, fmt.Sprintf("useEffect(() => { %s(%s); }, [%s]);", b.Setter, b.Prop, b.Prop))
	}
	return lines
}
