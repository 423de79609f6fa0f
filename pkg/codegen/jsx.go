package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/recera/reactify/pkg/markup"
	"github.com/recera/reactify/pkg/script"
)

var textEscaper = strings.NewReplacer(
	"\n", "",
	"&", "&amp;",
	"{", "&#123;",
	"}", "&#125;",
	"<", "&lt;",
	">", "&gt;",
)

// serializer renders an element tree as a JSX expression.
type serializer struct {
	ctx      context.Context
	opts     Options
	renames  map[string]string // prop -> state name
	resolves map[string]bool   // names a binding may reference as is
}

// jsx renders the root. A root that is not an element is wrapped in a
// fragment so the result is always a JSX expression.
func (s *serializer) jsx(el *markup.Element) (string, error) {
	var b strings.Builder
	wrap := el.Type != markup.ElementNode
	open, closing := s.fragment()
	if wrap {
		b.WriteString(open)
	}
	if err := s.write(&b, el); err != nil {
		return "", err
	}
	if wrap {
		b.WriteString(closing)
	}
	return b.String(), nil
}

func (s *serializer) fragment() (string, string) {
	if s.opts.ShortFragments {
		return "<>", "</>"
	}
	return "<React.Fragment>", "</React.Fragment>"
}

func (s *serializer) write(b *strings.Builder, el *markup.Element) error {
	switch el.Type {
	case markup.BindingNode:
		name, err := s.binding(el)
		if err != nil {
			return err
		}
		b.WriteString("{" + name + "}")
		return nil

	case markup.ExpressionNode:
		expr, err := s.expression(el.Value)
		if err != nil {
			return fmt.Errorf("node %d: %w", el.Index, err)
		}
		b.WriteString("{" + expr + "}")
		return nil

	case markup.TextNode:
		b.WriteString(textEscaper.Replace(el.Value))
		return nil

	case markup.ElementNode:
		open, closing, err := s.tags(el)
		if err != nil {
			return err
		}
		b.WriteString(open)
		for _, child := range el.Children {
			if err := s.write(b, child); err != nil {
				return err
			}
		}
		b.WriteString(closing)
		return nil
	}
	return fmt.Errorf("node %d: unknown node type %q", el.Index, el.Type)
}

func (s *serializer) binding(el *markup.Element) (string, error) {
	if name, ok := s.renames[el.Name]; ok {
		return name, nil
	}
	if s.resolves[el.Name] {
		return el.Name, nil
	}
	return "", &BindingError{Index: el.Index, Name: el.Name}
}

func (s *serializer) expression(expr string) (string, error) {
	return script.Rename(s.ctx, expr, s.renames)
}

// tags returns the open and close tag of an element.
func (s *serializer) tags(el *markup.Element) (string, string, error) {
	if el.IsFragment() {
		open, closing := s.fragment()
		return open, closing, nil
	}

	parts := make([]string, 0, 1+len(el.Attrs)+len(el.Listeners))
	parts = append(parts, el.Name)

	for _, attr := range el.Attrs {
		a, err := s.attribute(attr)
		if err != nil {
			return "", "", fmt.Errorf("node %d: attribute %s: %w", el.Index, attr.Name, err)
		}
		parts = append(parts, a)
	}

	for _, l := range el.Listeners {
		prop, ok := EventProp(l.Event)
		if !ok {
			return "", "", &EventError{Index: el.Index, Event: l.Event}
		}
		parts = append(parts, prop+"={"+l.Handler+"}")
	}

	return "<" + strings.Join(parts, " ") + ">", "</" + el.Name + ">", nil
}

func (s *serializer) attribute(attr markup.Attr) (string, error) {
	name := attributeName(attr.Name)

	if expr, ok := singleExpression(attr.Value); ok {
		renamed, err := s.expression(expr)
		if err != nil {
			return "", err
		}
		return name + "={" + renamed + "}", nil
	}
	if segs := markup.Split(attr.Value); interpolated(segs) {
		tmpl, err := s.template(segs)
		if err != nil {
			return "", err
		}
		return name + "={" + tmpl + "}", nil
	}
	if strings.Contains(attr.Value, `"`) {
		return name + "={" + jsString(attr.Value) + "}", nil
	}
	return name + `="` + attrEscaper.Replace(attr.Value) + `"`, nil
}

func interpolated(segs []markup.Segment) bool {
	for _, seg := range segs {
		if seg.Expr {
			return true
		}
	}
	return false
}

// template renders text mixed with {expr} parts as a template literal.
func (s *serializer) template(segs []markup.Segment) (string, error) {
	var b strings.Builder
	b.WriteByte('`')
	for _, seg := range segs {
		if !seg.Expr {
			b.WriteString(templateEscaper.Replace(seg.Text))
			continue
		}
		expr := strings.TrimSpace(seg.Text)
		if expr == "" {
			continue
		}
		renamed, err := s.expression(expr)
		if err != nil {
			return "", err
		}
		b.WriteString("${" + renamed + "}")
	}
	b.WriteByte('`')
	return b.String(), nil
}

// attributeName translates an HTML attribute name to its JSX prop.
func attributeName(name string) string {
	switch name {
	case "class":
		return "className"
	default:
		return name
	}
}

// singleExpression reports whether v is exactly one `{expr}` and returns expr.
func singleExpression(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 2 || v[0] != '{' || v[len(v)-1] != '}' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(v)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	expr := strings.TrimSpace(v[1 : len(v)-1])
	return expr, expr != ""
}

var attrEscaper = strings.NewReplacer("&", "&amp;")

var templateEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"${", `\${`,
)

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func jsString(s string) string {
	return `"` + jsEscaper.Replace(s) + `"`
}
