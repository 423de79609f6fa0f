package sfc

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/recera/reactify/pkg/markup"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// unsupportedDirectives are element directives with no JSX counterpart.
var unsupportedDirectives = []string{"bind:", "use:", "transition:", "in:", "out:", "animate:", "class:", "style:", "let:"}

// Flatten numbers the markup nodes in pre-order and returns them as flat
// nodes plus the listeners declared with on:event attributes. Comments and
// whitespace-only text spanning lines are dropped. A text node containing
// {expr} parts is split into text, binding and expression nodes.
func Flatten(tags []*html.Node) ([]markup.Node, []markup.Listener, error) {
	f := &flattener{}
	for _, n := range tags {
		if err := f.add(n, nil); err != nil {
			return nil, nil, err
		}
	}
	return f.nodes, f.listeners, nil
}

type flattener struct {
	nodes     []markup.Node
	listeners []markup.Listener
	next      int
}

func (f *flattener) index() int {
	i := f.next
	f.next++
	return i
}

func (f *flattener) add(n *html.Node, parent *int) error {
	switch n.Type {
	case html.ElementNode:
		return f.element(n, parent)
	case html.TextNode:
		return f.text(n.Data, parent)
	}
	// Comments and doctypes
	return nil
}

func (f *flattener) element(n *html.Node, parent *int) error {
	index := f.index()
	node := markup.NewElement(index, parent, n.Data)

	for _, a := range n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}

		if event, ok := strings.CutPrefix(name, "on:"); ok {
			event, _, _ = strings.Cut(event, "|")
			handler := strings.TrimSpace(a.Val)
			if expr, ok := braced(handler); ok {
				handler = expr
			}
			if handler == "" {
				return &DirectiveError{Index: index, Directive: name}
			}
			f.listeners = append(f.listeners, markup.Listener{Index: index, Event: event, Handler: handler})
			continue
		}
		for _, prefix := range unsupportedDirectives {
			if strings.HasPrefix(name, prefix) {
				return &DirectiveError{Index: index, Directive: name}
			}
		}

		node.Attrs = append(node.Attrs, markup.Attr{Name: name, Value: a.Val})
	}
	f.nodes = append(f.nodes, node)

	self := markup.ParentOf(index)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := f.add(c, self); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) text(data string, parent *int) error {
	for _, seg := range markup.Split(data) {
		if !seg.Expr {
			if strings.TrimSpace(seg.Text) == "" && strings.Contains(seg.Text, "\n") {
				continue
			}
			f.nodes = append(f.nodes, markup.NewText(f.index(), parent, seg.Text))
			continue
		}

		expr := strings.TrimSpace(seg.Text)
		switch {
		case expr != "" && strings.ContainsRune("#:/@", rune(expr[0])):
			return &BlockError{Parent: parent, Block: "{" + expr + "}"}
		case identifier.MatchString(expr):
			f.nodes = append(f.nodes, markup.NewBinding(f.index(), parent, expr))
		case expr == "":
			// {} renders nothing
		default:
			f.nodes = append(f.nodes, markup.NewExpression(f.index(), parent, expr))
		}
	}
	return nil
}

// braced returns the inside of a value written as {expr}.
func braced(v string) (string, bool) {
	if len(v) < 2 || v[0] != '{' || markup.MatchBrace(v, 0) != len(v)-1 {
		return "", false
	}
	return strings.TrimSpace(v[1 : len(v)-1]), true
}
