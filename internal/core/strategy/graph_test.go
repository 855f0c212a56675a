package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr error
	}{
		{
			name: "valid node",
			node: &Node{ID: "sma-1", Kind: NodeKindIndicator, Label: "SMA"},
		},
		{
			name:    "missing ID",
			node:    &Node{Kind: NodeKindIndicator},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "missing kind",
			node:    &Node{ID: "sma-1"},
			wantErr: ErrInvalidNodeKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNode_RoleHelpers(t *testing.T) {
	tests := []struct {
		name       string
		node       *Node
		wantRisk   bool
		wantSizing bool
	}{
		{
			name:     "risk kind",
			node:     &Node{ID: "sl", Kind: NodeKindRisk},
			wantRisk: true,
		},
		{
			name:     "risk category on custom code",
			node:     &Node{ID: "dd", Kind: NodeKindCustomCode, Category: "risk-management"},
			wantRisk: true,
		},
		{
			name:       "sizing kind",
			node:       &Node{ID: "kelly", Kind: NodeKindSizing},
			wantSizing: true,
		},
		{
			name:       "sizing category",
			node:       &Node{ID: "fixed", Kind: NodeKindCustomCode, Category: "position-sizing"},
			wantSizing: true,
		},
		{
			name: "plain indicator",
			node: &Node{ID: "sma", Kind: NodeKindIndicator},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRisk, tt.node.IsRiskControl())
			assert.Equal(t, tt.wantSizing, tt.node.IsPositionSizing())
		})
	}
}

func TestNode_RequiredUnbound(t *testing.T) {
	node := &Node{
		ID:   "cross",
		Kind: NodeKindCondition,
		Inputs: []InputSlot{
			{Name: "left", Required: true, Connected: true},
			{Name: "right", Required: true, Connected: false},
			{Name: "hint", Required: false, Connected: false},
		},
	}

	unbound := node.RequiredUnbound()
	require.Len(t, unbound, 1)
	assert.Equal(t, "right", unbound[0].Name)
}

func TestGraph_AddNode(t *testing.T) {
	g := NewGraph("test")

	require.NoError(t, g.AddNode(&Node{ID: "a", Kind: NodeKindInput}))
	require.NoError(t, g.AddNode(&Node{ID: "b", Kind: NodeKindOutput}))

	assert.ErrorIs(t, g.AddNode(nil), ErrNilNode)
	assert.ErrorIs(t, g.AddNode(&Node{ID: "a", Kind: NodeKindInput}), ErrDuplicateNode)
	assert.ErrorIs(t, g.AddNode(&Node{Kind: NodeKindInput}), ErrInvalidNodeID)
	assert.Len(t, g.Nodes, 2)
}

func TestGraph_AddNode_PreservesInsertionOrder(t *testing.T) {
	g := NewGraph("ordered")
	ids := []string{"z", "m", "a", "q"}
	for _, id := range ids {
		require.NoError(t, g.AddNode(&Node{ID: id, Kind: NodeKindIndicator}))
	}

	var got []string
	for _, n := range g.Nodes {
		got = append(got, n.ID)
	}
	assert.Equal(t, ids, got)
}

func TestGraph_AddEdge(t *testing.T) {
	g := NewGraph("test")
	require.NoError(t, g.AddNode(&Node{ID: "a", Kind: NodeKindInput}))

	require.NoError(t, g.AddEdge(&Edge{Source: "a", Target: "missing"}))
	assert.Len(t, g.Edges, 1, "dangling targets are a validation concern, not a model error")

	require.NoError(t, g.AddEdge(&Edge{Source: "a", Target: "a"}))
	assert.Len(t, g.Edges, 2, "self edges are reported by analysis, not rejected here")

	assert.ErrorIs(t, g.AddEdge(nil), ErrNilEdge)
	assert.ErrorIs(t, g.AddEdge(&Edge{Target: "a"}), ErrInvalidSource)
	assert.ErrorIs(t, g.AddEdge(&Edge{Source: "a"}), ErrInvalidTarget)
}

func TestGraph_Lookups(t *testing.T) {
	g := NewGraph("lookups")
	require.NoError(t, g.AddNode(&Node{ID: "p", Kind: NodeKindInput}))
	require.NoError(t, g.AddNode(&Node{ID: "s1", Kind: NodeKindIndicator}))
	require.NoError(t, g.AddNode(&Node{ID: "s2", Kind: NodeKindIndicator}))

	n, ok := g.NodeByID("s1")
	require.True(t, ok)
	assert.Equal(t, "s1", n.ID)

	_, ok = g.NodeByID("nope")
	assert.False(t, ok)

	set := g.NodeSet()
	assert.Len(t, set, 3)
	assert.Same(t, n, set["s1"])

	indicators := g.NodesOfKind(NodeKindIndicator)
	require.Len(t, indicators, 2)
	assert.Equal(t, "s1", indicators[0].ID)

	hist := g.KindHistogram()
	assert.Equal(t, 1, hist[NodeKindInput])
	assert.Equal(t, 2, hist[NodeKindIndicator])
}

func TestGraph_Validate(t *testing.T) {
	tests := []struct {
		name    string
		graph   *Graph
		wantErr error
	}{
		{
			name: "valid graph",
			graph: &Graph{
				Nodes: []*Node{{ID: "a", Kind: NodeKindInput}, {ID: "b", Kind: NodeKindOutput}},
				Edges: []*Edge{{Source: "a", Target: "b"}},
			},
		},
		{
			name:    "nil node",
			graph:   &Graph{Nodes: []*Node{nil}},
			wantErr: ErrNilNode,
		},
		{
			name: "duplicate IDs injected directly",
			graph: &Graph{
				Nodes: []*Node{{ID: "a", Kind: NodeKindInput}, {ID: "a", Kind: NodeKindOutput}},
			},
			wantErr: ErrDuplicateNode,
		},
		{
			name: "edge without target",
			graph: &Graph{
				Nodes: []*Node{{ID: "a", Kind: NodeKindInput}},
				Edges: []*Edge{{Source: "a"}},
			},
			wantErr: ErrInvalidTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
