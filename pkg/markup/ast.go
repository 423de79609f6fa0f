// Package markup holds the flat, parent-indexed node model produced by the
// component file parser and turns it into a rooted element tree.
package markup

// NodeType identifies the payload a Node carries.
type NodeType string

const (
	// ElementNode is a tag with attributes and children.
	ElementNode NodeType = "element"
	// TextNode is literal text.
	TextNode NodeType = "text"
	// BindingNode interpolates the value of a named property.
	BindingNode NodeType = "binding"
	// ExpressionNode interpolates an arbitrary script expression.
	ExpressionNode NodeType = "expression"
)

// FragmentIndex is the index of the synthetic fragment that wraps multiple
// root nodes. Real nodes never use it.
const FragmentIndex = -1

// Attr is a single attribute. Attributes are kept as a slice so that their
// source order survives serialization.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Node is one parsed markup unit, linked to its container by index.
type Node struct {
	Index  int      `json:"index"`
	Parent *int     `json:"parent"` // nil for roots
	Type   NodeType `json:"type"`

	// Name is the tag name of an element or the property name of a binding.
	Name  string `json:"name,omitempty"`
	Attrs []Attr `json:"attrs,omitempty"`
	// Value is the literal of a text node or the source of an expression.
	Value string `json:"value,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.Parent == nil
}

// Listener binds an event handler to the node with the given index.
type Listener struct {
	Index   int    `json:"index"`
	Event   string `json:"event"`
	Handler string `json:"handler"`
}

// Element is the tree form of a Node.
type Element struct {
	Node
	Children  []*Element `json:"children,omitempty"`
	Listeners []Listener `json:"listeners,omitempty"`
}

// IsFragment reports whether e is the synthetic fragment root.
func (e *Element) IsFragment() bool {
	return e.Index == FragmentIndex
}

// Walk calls fn for e and every descendant in depth-first pre-order. Walking
// stops early when fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, child := range e.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// ParentOf returns a parent reference for use in Node literals.
func ParentOf(index int) *int {
	return &index
}

// NewElement builds a Node of type element.
func NewElement(index int, parent *int, name string, attrs ...Attr) Node {
	return Node{Index: index, Parent: parent, Type: ElementNode, Name: name, Attrs: attrs}
}

// NewText builds a Node of type text.
func NewText(index int, parent *int, value string) Node {
	return Node{Index: index, Parent: parent, Type: TextNode, Value: value}
}

// NewBinding builds a Node of type binding.
func NewBinding(index int, parent *int, name string) Node {
	return Node{Index: index, Parent: parent, Type: BindingNode, Name: name}
}

// NewExpression builds a Node of type expression.
func NewExpression(index int, parent *int, source string) Node {
	return Node{Index: index, Parent: parent, Type: ExpressionNode, Value: source}
}
