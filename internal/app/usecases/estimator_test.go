package usecases

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

func graphOfKinds(t *testing.T, kinds ...strategy.NodeKind) *strategy.Graph {
	t.Helper()
	g := strategy.NewGraph("est")
	for i, kind := range kinds {
		require.NoError(t, g.AddNode(&strategy.Node{
			ID:   fmt.Sprintf("n%d", i),
			Kind: kind,
		}))
	}
	return g
}

func TestEstimate_ComplexityWeights(t *testing.T) {
	tests := []struct {
		name  string
		kinds []strategy.NodeKind
		want  int
	}{
		{name: "empty", want: 0},
		{name: "input weighs one", kinds: []strategy.NodeKind{strategy.NodeKindInput}, want: 1},
		{name: "indicator weighs two", kinds: []strategy.NodeKind{strategy.NodeKindIndicator}, want: 2},
		{name: "condition weighs three", kinds: []strategy.NodeKind{strategy.NodeKindCondition}, want: 3},
		{name: "signal weighs four", kinds: []strategy.NodeKind{strategy.NodeKindSignal}, want: 4},
		{name: "custom code weighs six", kinds: []strategy.NodeKind{strategy.NodeKindCustomCode}, want: 6},
		{name: "ml model weighs eight", kinds: []strategy.NodeKind{strategy.NodeKindMLModel}, want: 8},
		{name: "unknown kind uses default", kinds: []strategy.NodeKind{"exotic"}, want: 2},
		{
			name: "weights sum",
			kinds: []strategy.NodeKind{
				strategy.NodeKindInput, strategy.NodeKindIndicator,
				strategy.NodeKindCondition, strategy.NodeKindSignal,
				strategy.NodeKindOutput,
			},
			want: 1 + 2 + 3 + 4 + 1,
		},
	}

	est := NewDefaultEstimator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOfKinds(t, tt.kinds...)
			assert.Equal(t, tt.want, est.Estimate(g, nil).Complexity)
		})
	}
}

func TestEstimate_Latency(t *testing.T) {
	est := NewDefaultEstimator()

	g := graphOfKinds(t,
		strategy.NodeKindMLModel,    // 50
		strategy.NodeKindCustomCode, // 20
		strategy.NodeKindIndicator,  // 5
		strategy.NodeKindInput,      // 1
	)
	assert.Equal(t, 76, est.Estimate(g, nil).EstimatedLatency)
}

func TestEstimate_Memory(t *testing.T) {
	est := NewDefaultEstimator()

	g := graphOfKinds(t, strategy.NodeKindInput, strategy.NodeKindMLModel)
	got := est.Estimate(g, nil).MemoryUsage
	assert.Equal(t, int64(2*512+10<<20), got)
}

func TestEstimate_ScalabilityBuckets(t *testing.T) {
	tests := []struct {
		complexity int
		want       dto.Scalability
	}{
		{0, dto.ScalabilityExcellent},
		{19, dto.ScalabilityExcellent},
		{20, dto.ScalabilityGood},
		{49, dto.ScalabilityGood},
		{50, dto.ScalabilityFair},
		{99, dto.ScalabilityFair},
		{100, dto.ScalabilityPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scalabilityBucket(tt.complexity), "complexity %d", tt.complexity)
	}
}

func TestEstimate_Bottlenecks(t *testing.T) {
	est := NewDefaultEstimator()

	t.Run("clean graph has none", func(t *testing.T) {
		g := graphOfKinds(t, strategy.NodeKindInput, strategy.NodeKindSignal)
		assert.Empty(t, est.Estimate(g, nil).Bottlenecks)
	})

	t.Run("too many ml models", func(t *testing.T) {
		g := graphOfKinds(t,
			strategy.NodeKindMLModel, strategy.NodeKindMLModel,
			strategy.NodeKindMLModel, strategy.NodeKindMLModel)
		got := est.Estimate(g, nil)
		require.NotEmpty(t, got.Bottlenecks)
		assert.Contains(t, got.Bottlenecks[0], "ml-model")
	})

	t.Run("latency ceiling", func(t *testing.T) {
		kinds := make([]strategy.NodeKind, 11)
		for i := range kinds {
			kinds[i] = strategy.NodeKindCustomCode // 11 * 20 = 220 units
		}
		got := est.Estimate(graphOfKinds(t, kinds...), nil)
		require.NotEmpty(t, got.Bottlenecks)
		assert.Contains(t, got.Bottlenecks[0], "latency")
	})

	t.Run("indicator overload", func(t *testing.T) {
		kinds := make([]strategy.NodeKind, 26)
		for i := range kinds {
			kinds[i] = strategy.NodeKindIndicator
		}
		got := est.Estimate(graphOfKinds(t, kinds...), nil)
		require.NotEmpty(t, got.Bottlenecks)
		assert.Contains(t, got.Bottlenecks[len(got.Bottlenecks)-1], "indicators")
	})
}

func TestEstimate_NilGraph(t *testing.T) {
	got := NewDefaultEstimator().Estimate(nil, nil)
	assert.Equal(t, 0, got.Complexity)
	assert.Equal(t, dto.ScalabilityExcellent, got.Scalability)
}
