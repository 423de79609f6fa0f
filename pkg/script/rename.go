package script

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Rename rewrites every free reference to a key of names in expr to the
// mapped identifier. Identifiers rebound by a function parameter or a local
// declaration inside expr keep their name. Shorthand object properties are
// expanded so the property key is preserved.
func Rename(ctx context.Context, expr string, names map[string]string) (string, error) {
	expr = strings.TrimSpace(expr)
	if len(names) == 0 || expr == "" {
		return expr, nil
	}

	src := []byte("(" + expr + "\n)")
	tree, err := parseTree(ctx, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return "", syntaxError(root, src, 1)
	}
	inner := unwrapExpression(root)
	if inner == nil {
		return "", &SyntaxError{Line: 1, Column: 1, Reason: "not a single expression", Near: expr}
	}

	type edit struct {
		start, end int
		text       string
	}
	var edits []edit
	b := &builder{src: src}

	var visit func(n *sitter.Node, scope []string)
	visit = func(n *sitter.Node, scope []string) {
		scope = b.enter(n, scope)
		switch n.Type() {
		case "identifier", "shorthand_property_identifier":
			name := b.text(n)
			to, ok := names[name]
			if !ok || contains(scope, name) || isBindingPosition(n) {
				return
			}
			if n.Type() == "shorthand_property_identifier" {
				to = name + ": " + to
			}
			edits = append(edits, edit{start: int(n.StartByte()), end: int(n.EndByte()), text: to})
			return
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			visit(n.NamedChild(i), scope)
		}
	}
	visit(inner, nil)

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	base := int(inner.StartByte())
	out := string(src[inner.StartByte():inner.EndByte()])
	var sb strings.Builder
	pos := 0
	for _, e := range edits {
		sb.WriteString(out[pos : e.start-base])
		sb.WriteString(e.text)
		pos = e.end - base
	}
	sb.WriteString(out[pos:])
	return sb.String(), nil
}

// isBindingPosition reports whether an identifier is being declared rather
// than read, such as the single parameter of `x => ...`.
func isBindingPosition(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "arrow_function":
		if p := parent.ChildByFieldName("parameter"); p != nil && p.StartByte() == n.StartByte() {
			return true
		}
	case "variable_declarator", "function", "function_expression", "function_declaration", "class_declaration":
		if p := parent.ChildByFieldName("name"); p != nil && p.StartByte() == n.StartByte() {
			return true
		}
	case "formal_parameters":
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
