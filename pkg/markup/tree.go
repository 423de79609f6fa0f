package markup

// BuildTree links a flat node list and its listeners into a single rooted
// tree. Children and listeners keep their input order. More than one root is
// wrapped in a freshly built fragment element.
func BuildTree(nodes []Node, listeners []Listener) (*Element, error) {
	if len(nodes) == 0 {
		return nil, malformed(FragmentIndex, "empty template")
	}

	byIndex := make(map[int]*Element, len(nodes))
	order := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Index < 0 {
			return nil, malformed(n.Index, "negative index")
		}
		if _, dup := byIndex[n.Index]; dup {
			return nil, malformed(n.Index, "duplicate index")
		}
		el := &Element{Node: n}
		byIndex[n.Index] = el
		order = append(order, el)
	}

	for _, l := range listeners {
		el, ok := byIndex[l.Index]
		if !ok {
			return nil, malformed(l.Index, "%s listener targets a missing node", l.Event)
		}
		el.Listeners = append(el.Listeners, l)
	}

	var roots []*Element
	for _, el := range order {
		if el.Parent == nil {
			roots = append(roots, el)
			continue
		}
		parent, ok := byIndex[*el.Parent]
		if !ok {
			return nil, malformed(el.Index, "parent %d does not exist", *el.Parent)
		}
		parent.Children = append(parent.Children, el)
	}

	if len(roots) == 0 {
		return nil, malformed(FragmentIndex, "no root nodes")
	}

	// A cycle leaves its members linked to each other but unreachable from
	// every root.
	reached := 0
	for _, root := range roots {
		root.Walk(func(*Element) bool {
			reached++
			return true
		})
	}
	if reached != len(order) {
		for _, el := range order {
			if !reachable(el, byIndex) {
				return nil, malformed(el.Index, "not reachable from a root")
			}
		}
	}

	if len(roots) == 1 {
		return roots[0], nil
	}
	return NewFragment(roots...), nil
}

// NewFragment returns a synthetic fragment owning children.
func NewFragment(children ...*Element) *Element {
	return &Element{
		Node:     Node{Index: FragmentIndex, Type: ElementNode},
		Children: children,
	}
}

func reachable(el *Element, byIndex map[int]*Element) bool {
	seen := make(map[int]bool)
	for el.Parent != nil {
		if seen[el.Index] {
			return false
		}
		seen[el.Index] = true
		el = byIndex[*el.Parent]
	}
	return true
}
