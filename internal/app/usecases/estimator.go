package usecases

import (
	"fmt"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// Per-kind complexity weights. Heavier kinds model real compute cost.
var complexityWeights = map[strategy.NodeKind]int{
	strategy.NodeKindInput:      1,
	strategy.NodeKindOutput:     1,
	strategy.NodeKindRisk:       1,
	strategy.NodeKindSizing:     1,
	strategy.NodeKindIndicator:  2,
	strategy.NodeKindCondition:  3,
	strategy.NodeKindLogic:      3,
	strategy.NodeKindSignal:     4,
	strategy.NodeKindCustomCode: 6,
	strategy.NodeKindMLModel:    8,
}

// Per-kind fixed latency costs in abstract units per bar.
var latencyWeights = map[strategy.NodeKind]int{
	strategy.NodeKindMLModel:    50,
	strategy.NodeKindCustomCode: 20,
	strategy.NodeKindIndicator:  5,
}

const (
	defaultComplexityWeight = 2
	defaultLatencyWeight    = 1

	// Memory model: a flat per-node allocation plus a large working set
	// per ml-model (weights, feature buffers).
	nodeMemoryBytes    = 512
	mlModelMemoryBytes = 10 << 20

	// Bottleneck ceilings.
	maxMLModels      = 3
	latencyCeiling   = 200
	maxIndicators    = 25
	scalabilityGood  = 20
	scalabilityFair  = 50
	scalabilityLimit = 100
)

// DefaultEstimator implements a deliberately simple additive cost model.
// It is not a simulation: exact runtime cost is only knowable after
// compilation and execution, which is out of scope here.
// PRINCIPLES:
// - KISS: Weighted sums, no solver
// - SRP: Estimation only, never blocks anything
type DefaultEstimator struct{}

// NewDefaultEstimator creates the standard cost model.
func NewDefaultEstimator() *DefaultEstimator {
	return &DefaultEstimator{}
}

// Estimate computes the performance profile for one graph snapshot.
// The dependency map parameter keeps the signature stable for future
// models that weigh fan-in; the additive model ignores it.
func (e *DefaultEstimator) Estimate(g *strategy.Graph, deps map[string][]string) dto.PerformanceEstimate {
	est := dto.PerformanceEstimate{Scalability: dto.ScalabilityExcellent}
	if g == nil {
		return est
	}

	var mlModels, indicators int
	for _, n := range g.Nodes {
		w, ok := complexityWeights[n.Kind]
		if !ok {
			w = defaultComplexityWeight
		}
		est.Complexity += w

		l, ok := latencyWeights[n.Kind]
		if !ok {
			l = defaultLatencyWeight
		}
		est.EstimatedLatency += l

		switch n.Kind {
		case strategy.NodeKindMLModel:
			mlModels++
		case strategy.NodeKindIndicator:
			indicators++
		}
	}

	est.MemoryUsage = int64(len(g.Nodes))*nodeMemoryBytes + int64(mlModels)*mlModelMemoryBytes
	est.Scalability = scalabilityBucket(est.Complexity)

	if mlModels > maxMLModels {
		est.Bottlenecks = append(est.Bottlenecks,
			fmt.Sprintf("%d ml-model nodes; inference cost dominates per-bar latency", mlModels))
	}
	if est.EstimatedLatency > latencyCeiling {
		est.Bottlenecks = append(est.Bottlenecks,
			fmt.Sprintf("estimated latency %d exceeds %d units per bar", est.EstimatedLatency, latencyCeiling))
	}
	if indicators > maxIndicators {
		est.Bottlenecks = append(est.Bottlenecks,
			fmt.Sprintf("%d indicators; consider pruning redundant signals", indicators))
	}
	return est
}

// scalabilityBucket maps weighted complexity to a categorical rating.
func scalabilityBucket(complexity int) dto.Scalability {
	switch {
	case complexity < scalabilityGood:
		return dto.ScalabilityExcellent
	case complexity < scalabilityFair:
		return dto.ScalabilityGood
	case complexity < scalabilityLimit:
		return dto.ScalabilityFair
	default:
		return dto.ScalabilityPoor
	}
}
