package script

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Parse parses a script body into its top-level statements. Comments are
// kept as statements of kind "comment".
func Parse(ctx context.Context, src []byte) ([]*Statement, error) {
	tree, err := parseTree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, src, 0)
	}

	b := &builder{src: src}
	count := int(root.NamedChildCount())
	stmts := make([]*Statement, 0, count)
	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		s := b.statement(n, nil, nil)
		s.Declares = b.declares(n)
		s.Exported = b.exported(n)
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// ParseExpression parses a single expression, such as an event handler, into
// a pseudo statement of kind KindExpression whose Source is the trimmed
// input.
func ParseExpression(ctx context.Context, expr string) (*Statement, error) {
	expr = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(expr), ";"))
	if expr == "" {
		return nil, &SyntaxError{Line: 1, Column: 1, Reason: "empty expression"}
	}
	src := []byte("(" + expr + "\n)")
	tree, err := parseTree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, src, 1)
	}
	inner := unwrapExpression(root)
	if inner == nil {
		return nil, &SyntaxError{Line: 1, Column: 1, Reason: "not a single expression", Near: expr}
	}

	b := &builder{src: src}
	s := b.statement(inner, inner, nil)
	s.Kind = KindExpression
	return s, nil
}

func parseTree(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return tree, nil
}

// unwrapExpression returns the expression inside `( ... )` when the program
// consists of exactly that one statement.
func unwrapExpression(root *sitter.Node) *sitter.Node {
	if root.NamedChildCount() != 1 {
		return nil
	}
	stmt := root.NamedChild(0)
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
		return nil
	}
	paren := stmt.NamedChild(0)
	if paren.Type() != "parenthesized_expression" || paren.NamedChildCount() != 1 {
		return nil
	}
	return paren.NamedChild(0)
}

type builder struct {
	src []byte
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

// statement builds a Statement covering n. assignTo is the node checked for
// an assignment: the expression of an expression statement, or n itself for
// pseudo statements.
func (b *builder) statement(n, assignTo *sitter.Node, scope []string) *Statement {
	base := int(n.StartByte())
	s := &Statement{
		Kind:     n.Type(),
		Source:   b.text(n),
		Shadowed: scope,
	}
	if n.Type() == "expression_statement" && n.NamedChildCount() > 0 {
		assignTo = n.NamedChild(0)
	}
	if assignTo != nil {
		s.Assign = b.assignment(assignTo, base)
	}
	b.walk(n, base, scope, &s.Nested)
	return s
}

// walk collects the statements nested under n. base is the start offset of
// the statement whose Source the spans index into.
func (b *builder) walk(n *sitter.Node, base int, scope []string, out *[]Span) {
	scope = b.enter(n, scope)
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		switch {
		case c.Type() == "expression_statement":
			*out = append(*out, b.span(c, base, b.statement(c, nil, scope)))
		case n.Type() == "arrow_function" && i == count-1 && c.Type() != "statement_block":
			// Expression body of an arrow function.
			if assignmentKind(c) {
				body := b.statement(c, c, scope)
				body.Kind = KindExpression
				*out = append(*out, b.span(c, base, body))
				continue
			}
			b.walk(c, base, scope, out)
		default:
			b.walk(c, base, scope, out)
		}
	}
}

func (b *builder) span(n *sitter.Node, base int, s *Statement) Span {
	return Span{Start: int(n.StartByte()) - base, End: int(n.EndByte()) - base, Statement: s}
}

func assignmentKind(n *sitter.Node) bool {
	switch n.Type() {
	case "assignment_expression", "augmented_assignment_expression", "update_expression":
		return true
	case "parenthesized_expression":
		return n.NamedChildCount() == 1 && assignmentKind(n.NamedChild(0))
	}
	return false
}

// assignment recognises writes to a bare identifier.
func (b *builder) assignment(n *sitter.Node, base int) *Assignment {
	for n.Type() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		n = n.NamedChild(0)
	}

	switch n.Type() {
	case "assignment_expression", "augmented_assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil || left.Type() != "identifier" {
			return nil
		}
		op := strings.TrimSpace(string(b.src[left.EndByte():right.StartByte()]))
		return &Assignment{
			Target:     b.text(left),
			Operator:   op,
			Value:      b.text(right),
			valueStart: int(right.StartByte()) - base,
			valueEnd:   int(right.EndByte()) - base,
		}
	case "update_expression":
		arg := n.ChildByFieldName("argument")
		if arg == nil || arg.Type() != "identifier" {
			return nil
		}
		op := "++"
		if strings.Contains(b.text(n), "--") {
			op = "--"
		}
		return &Assignment{Target: b.text(arg), Operator: op}
	}
	return nil
}

// enter extends scope with the names n binds for its children.
func (b *builder) enter(n *sitter.Node, scope []string) []string {
	var names []string
	switch n.Type() {
	case "function_declaration", "function", "function_expression",
		"generator_function_declaration", "generator_function",
		"arrow_function", "method_definition":
		if p := n.ChildByFieldName("parameters"); p != nil {
			names = b.bindingNames(p)
		} else if p := n.ChildByFieldName("parameter"); p != nil {
			names = b.bindingNames(p)
		}
		if body := n.ChildByFieldName("body"); body != nil && body.Type() == "statement_block" {
			names = append(names, b.vars(body)...)
		}
	case "statement_block":
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			names = append(names, b.declares(n.NamedChild(i))...)
		}
	case "for_statement":
		if init := n.ChildByFieldName("initializer"); init != nil {
			names = b.declares(init)
		}
	case "for_in_statement":
		if left := n.ChildByFieldName("left"); left != nil {
			names = b.bindingNames(left)
		}
	case "catch_clause":
		if p := n.ChildByFieldName("parameter"); p != nil {
			names = b.bindingNames(p)
		}
	}
	if len(names) == 0 {
		return scope
	}
	out := make([]string, 0, len(scope)+len(names))
	out = append(out, scope...)
	return append(out, names...)
}

// vars returns the names bound by var declarations anywhere under n, which
// are scoped to the enclosing function. Nested functions are not searched.
func (b *builder) vars(n *sitter.Node) []string {
	var names []string
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "function_declaration", "function", "function_expression",
			"generator_function_declaration", "generator_function",
			"arrow_function", "method_definition", "class_declaration", "class":
			continue
		case "variable_declaration":
			names = append(names, b.declares(c)...)
		case "for_in_statement":
			if kind := c.ChildByFieldName("kind"); kind != nil && b.text(kind) == "var" {
				if left := c.ChildByFieldName("left"); left != nil {
					names = append(names, b.bindingNames(left)...)
				}
			}
		}
		names = append(names, b.vars(c)...)
	}
	return names
}

// declares returns the names a declaration statement binds in its scope.
func (b *builder) declares(n *sitter.Node) []string {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			d := n.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			if name := d.ChildByFieldName("name"); name != nil {
				names = append(names, b.bindingNames(name)...)
			}
		}
		return names
	case "function_declaration", "generator_function_declaration", "class_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			return []string{b.text(name)}
		}
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return b.declares(decl)
		}
	case "import_statement":
		return b.importNames(n)
	}
	return nil
}

func (b *builder) importNames(n *sitter.Node) []string {
	var names []string
	var visit func(*sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "identifier":
			names = append(names, b.text(n))
			return
		case "import_specifier":
			if alias := n.ChildByFieldName("alias"); alias != nil {
				names = append(names, b.text(alias))
			} else if name := n.ChildByFieldName("name"); name != nil {
				names = append(names, b.text(name))
			}
			return
		case "string":
			return
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			visit(n.NamedChild(i))
		}
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c.Type() == "import_clause" {
			visit(c)
		}
	}
	return names
}

// exported returns the declarators of `export let` and `export var`.
func (b *builder) exported(n *sitter.Node) []Declarator {
	if n.Type() != "export_statement" {
		return nil
	}
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		return nil
	}
	switch decl.Type() {
	case "variable_declaration":
	case "lexical_declaration":
		if !strings.HasPrefix(b.text(decl), "let") {
			return nil
		}
	default:
		return nil
	}

	var out []Declarator
	count := int(decl.NamedChildCount())
	for i := 0; i < count; i++ {
		d := decl.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		name := d.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			continue
		}
		dec := Declarator{Name: b.text(name)}
		if value := d.ChildByFieldName("value"); value != nil {
			dec.Init = b.text(value)
		}
		out = append(out, dec)
	}
	return out
}

// bindingNames returns the identifiers a parameter list or pattern binds.
// Default values are not part of the binding.
func (b *builder) bindingNames(n *sitter.Node) []string {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{b.text(n)}
	case "assignment_pattern", "object_assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			return b.bindingNames(left)
		}
		return nil
	case "pair_pattern":
		if value := n.ChildByFieldName("value"); value != nil {
			return b.bindingNames(value)
		}
		return nil
	case "comment":
		return nil
	}
	var names []string
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		names = append(names, b.bindingNames(n.NamedChild(i))...)
	}
	return names
}
