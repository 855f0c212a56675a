// Package analysis derives dependency structure from a strategy graph:
// the target→sources dependency map, directed cycles, missing node
// references, and a topological ordering used by the code generator.
//
// The analyzer is pure and total: it never mutates the graph, never
// panics on malformed input, and produces identical output for identical
// input (nodes are visited in editor insertion order).
package analysis

import (
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// MissingRef records an edge endpoint that does not exist in the node set.
// A dangling reference is a validation condition, not a cycle and not a crash.
type MissingRef struct {
	NodeID string `json:"node_id"` // node carrying the dangling dependency
	Ref    string `json:"ref"`     // referenced ID absent from the node set
}

// Result is the full analyzer output for one graph snapshot.
type Result struct {
	// Dependencies maps node ID to the IDs of its sources (deduplicated,
	// in first-seen edge order).
	Dependencies map[string][]string `json:"dependencies"`

	// Cycles lists each detected cycle in traversal order.
	Cycles [][]string `json:"cycles,omitempty"`

	// Missing lists dangling edge references.
	Missing []MissingRef `json:"missing,omitempty"`

	// Order is a topological ordering (dependencies first). On a cyclic
	// graph the order is partial and non-unique; check Cycles first.
	Order []string `json:"order"`
}

// IsAcyclic reports whether no cycle was found.
func (r *Result) IsAcyclic() bool {
	return len(r.Cycles) == 0
}

// Analyze builds the dependency map and runs cycle detection plus
// topological ordering over one immutable graph snapshot. O(V+E).
func Analyze(g *strategy.Graph) *Result {
	if g == nil {
		return &Result{Dependencies: make(map[string][]string)}
	}
	res := &Result{
		Dependencies: make(map[string][]string, len(g.Nodes)),
	}

	nodeSet := g.NodeSet()

	// Target→sources adjacency. Duplicate edges are legal in the model but
	// must not double-count during traversal, so they collapse here.
	type depKey struct{ target, source string }
	seen := make(map[depKey]struct{}, len(g.Edges))
	for _, n := range g.Nodes {
		res.Dependencies[n.ID] = nil
	}
	for _, e := range g.Edges {
		if _, ok := nodeSet[e.Target]; !ok {
			res.Missing = append(res.Missing, MissingRef{NodeID: e.Source, Ref: e.Target})
			continue
		}
		if _, ok := nodeSet[e.Source]; !ok {
			res.Missing = append(res.Missing, MissingRef{NodeID: e.Target, Ref: e.Source})
			continue
		}
		k := depKey{e.Target, e.Source}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		res.Dependencies[e.Target] = append(res.Dependencies[e.Target], e.Source)
	}

	res.Cycles = detectCycles(g, res.Dependencies)
	res.Order = topologicalOrder(g, res.Dependencies)
	return res
}

// detectCycles runs DFS from every unvisited node in insertion order,
// keeping an explicit recursion stack. Revisiting a node already on the
// stack yields one cycle: the stack slice from that node's first
// occurrence through the current node.
func detectCycles(g *strategy.Graph, deps map[string][]string) [][]string {
	var cycles [][]string
	visited := make(map[string]bool, len(g.Nodes))
	onStack := make(map[string]int, len(g.Nodes)) // node → stack index
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		if idx, ok := onStack[id]; ok {
			cycle := make([]string, len(stack)-idx)
			copy(cycle, stack[idx:])
			cycles = append(cycles, cycle)
			return
		}
		if visited[id] {
			return
		}
		visited[id] = true
		onStack[id] = len(stack)
		stack = append(stack, id)
		for _, dep := range deps[id] {
			visit(dep)
		}
		stack = stack[:len(stack)-1]
		delete(onStack, id)
	}

	for _, n := range g.Nodes {
		if !visited[n.ID] {
			visit(n.ID)
		}
	}
	return cycles
}

// topologicalOrder appends each node after its dependencies. Already
// appended nodes are skipped, which also bounds recursion on cyclic input.
func topologicalOrder(g *strategy.Graph, deps map[string][]string) []string {
	order := make([]string, 0, len(g.Nodes))
	state := make(map[string]int, len(g.Nodes)) // 0 unvisited, 1 in progress, 2 done

	var visit func(id string)
	visit = func(id string) {
		if state[id] != 0 {
			return
		}
		state[id] = 1
		for _, dep := range deps[id] {
			visit(dep)
		}
		state[id] = 2
		order = append(order, id)
	}

	for _, n := range g.Nodes {
		visit(n.ID)
	}
	return order
}

// LongestChain returns the length (in nodes) of the longest dependency
// chain. Memoized DFS; nodes on the current path report depth 0 so cyclic
// graphs terminate instead of recursing forever.
func LongestChain(g *strategy.Graph, deps map[string][]string) int {
	memo := make(map[string]int, len(g.Nodes))
	inPath := make(map[string]bool, len(g.Nodes))

	var depth func(id string) int
	depth = func(id string) int {
		if d, ok := memo[id]; ok {
			return d
		}
		if inPath[id] {
			return 0
		}
		inPath[id] = true
		max := 0
		for _, dep := range deps[id] {
			if d := depth(dep); d > max {
				max = d
			}
		}
		delete(inPath, id)
		memo[id] = max + 1
		return max + 1
	}

	longest := 0
	for _, n := range g.Nodes {
		if d := depth(n.ID); d > longest {
			longest = d
		}
	}
	return longest
}

// KindBreadth counts the distinct node kinds present in the graph.
func KindBreadth(g *strategy.Graph) int {
	return len(g.KindHistogram())
}
