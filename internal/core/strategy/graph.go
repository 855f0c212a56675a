// Package strategy provides the core strategy graph entities
// following Clean Architecture principles with zero external dependencies.
package strategy

// Graph represents a user-assembled trading strategy as a directed graph
// of typed nodes. Node order is preserved from the editor so that repeated
// analysis runs over an unchanged graph produce identical output.
// PRINCIPLES:
// - KISS: Simple struct, no complex hierarchies
// - SRP: Only responsible for graph structure, not validation policy
// - YAGNI: No unused fields or methods
type Graph struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name,omitempty"`
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// NewGraph creates an empty strategy graph.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// AddNode appends a node to the graph. Duplicate IDs are rejected; the
// slice (not a map) keeps editor insertion order for deterministic analysis.
func (g *Graph) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if err := node.Validate(); err != nil {
		return err
	}
	for _, existing := range g.Nodes {
		if existing.ID == node.ID {
			return ErrDuplicateNode
		}
	}
	g.Nodes = append(g.Nodes, node)
	return nil
}

// AddEdge appends a directed edge. Dangling endpoint references and cycles
// are legal here: they are reported by the validation pass, never rejected
// at the model layer, so the editor can hold partially wired graphs.
func (g *Graph) AddEdge(edge *Edge) error {
	if edge == nil {
		return ErrNilEdge
	}
	if err := edge.Validate(); err != nil {
		return err
	}
	g.Edges = append(g.Edges, edge)
	return nil
}

// NodeByID returns the node with the given ID.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeSet returns a lookup map from node ID to node. The map is derived on
// demand; the slice remains the source of truth for ordering.
func (g *Graph) NodeSet() map[string]*Node {
	set := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		set[n.ID] = n
	}
	return set
}

// NodesOfKind returns nodes of the given kind in graph order.
func (g *Graph) NodesOfKind(kind NodeKind) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// KindHistogram counts nodes per kind.
func (g *Graph) KindHistogram() map[NodeKind]int {
	hist := make(map[NodeKind]int)
	for _, n := range g.Nodes {
		hist[n.Kind]++
	}
	return hist
}

// Validate ensures graph integrity
// PRINCIPLES:
// - SRP: Single responsibility - validation only
// - KISS: Simple validation rules, easy to understand
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n == nil {
			return ErrNilNode
		}
		if err := n.Validate(); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return ErrDuplicateNode
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if e == nil {
			return ErrNilEdge
		}
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
