package tree

import "slices"

// Predicate selects elements.
type Predicate func(*Node) bool

// Finder returns elements related to a node, for example its matching
// descendants.
type Finder func(*Node) []*Node

// Local matches elements by local name regardless of their namespace.
func Local(name string) Predicate {
	return func(n *Node) bool {
		return n.Local == name
	}
}

// LocalIn matches elements with any of the local names.
func LocalIn(names ...string) Predicate {
	return func(n *Node) bool {
		return slices.Contains(names, n.Local)
	}
}

// NamespaceIn matches elements from any of the namespaces.
func NamespaceIn(spaces ...string) Predicate {
	return func(n *Node) bool {
		return slices.Contains(spaces, n.Space)
	}
}

// Descendants returns all descendants of n that match the predicate, in
// document order. The node itself is not included.
func Descendants(n *Node, pred Predicate) []*Node {
	var res []*Node
	Walk(n, func(c *Node) {
		if pred(c) {
			res = append(res, c)
		}
	})
	return res
}

// Find creates a Finder of descendants matching the predicate.
func Find(pred Predicate) Finder {
	return func(n *Node) []*Node {
		return Descendants(n, pred)
	}
}

// HasAncestorOrSelf checks if the node or any of its ancestors matches
// the predicate.
func HasAncestorOrSelf(n *Node, pred Predicate) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if pred(cur) {
			return true
		}
	}
	return false
}

// Resolver substitutes RDF references with the elements they point to.
// It is built once per document.
type Resolver struct {
	about  map[string]*Node
	nodeID map[string]*Node
}

// NewResolver indexes elements of the document by rdf:about and by
// rdf:nodeID. Only the first element with a given identifier is kept.
func NewResolver(root *Node) *Resolver {
	res := &Resolver{
		about:  make(map[string]*Node),
		nodeID: make(map[string]*Node),
	}
	index := func(n *Node) {
		if v, ok := n.RDFAttr("about"); ok {
			if _, seen := res.about[v]; !seen {
				res.about[v] = n
			}
		}
		// empty elements with rdf:nodeID are references, not definitions
		if v, ok := n.RDFAttr("nodeID"); ok && !n.IsEmpty() {
			if _, seen := res.nodeID[v]; !seen {
				res.nodeID[v] = n
			}
		}
	}
	index(root)
	Walk(root, index)
	return res
}

// Resolve returns the element referenced by an empty element through
// rdf:resource or rdf:nodeID. Any other element is returned unchanged,
// as well as references that point outside of the document.
func (r *Resolver) Resolve(n *Node) *Node {
	if !n.IsEmpty() {
		return n
	}
	if v, ok := n.RDFAttr("resource"); ok {
		if res, ok := r.about[v]; ok {
			return res
		}
		return n
	}
	if v, ok := n.RDFAttr("nodeID"); ok {
		if res, ok := r.nodeID[v]; ok {
			return res
		}
	}
	return n
}

// Resolved decorates a Finder so that every found reference is replaced
// by the element it points to.
func (r *Resolver) Resolved(find Finder) Finder {
	return func(n *Node) []*Node {
		nodes := find(n)
		res := make([]*Node, len(nodes))
		for i := range nodes {
			res[i] = r.Resolve(nodes[i])
		}
		return res
	}
}
