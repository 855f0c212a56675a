package usecases

import (
	"context"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// Estimator derives advisory performance figures from node composition.
type Estimator interface {
	Estimate(g *strategy.Graph, deps map[string][]string) dto.PerformanceEstimate
}

// Validator produces a validation report for one graph snapshot.
// Implemented by the rule engine; declared here so the scheduler and
// compiler depend on the behavior, not the engine package.
type Validator interface {
	Validate(g *strategy.Graph) *dto.ValidationReport
}

// StrategyCompiler turns a validated graph into an executable artifact.
type StrategyCompiler interface {
	Compile(ctx context.Context, g *strategy.Graph, opts CompileOptions) *dto.CompilationResult
}

// CompileOptions control one compile call.
type CompileOptions struct {
	// Optimization selects the textual optimization pass.
	Optimization dto.OptimizationLevel

	// SkipSyntaxCheck disables the generated-code parse step. Used by
	// callers that run their own verification downstream.
	SkipSyntaxCheck bool
}
