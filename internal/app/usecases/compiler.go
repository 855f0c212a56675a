package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/analysis"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/infrastructure/metrics"
)

// DefaultCompiler implements the StrategyCompiler interface
// PRINCIPLES:
// - SRP: Only responsible for code generation orchestration
// - KISS: Four sequential phases with cancellation checks between them
type DefaultCompiler struct {
	estimator Estimator
	now       func() time.Time
}

// NewDefaultCompiler creates a compiler with the default estimator.
func NewDefaultCompiler() *DefaultCompiler {
	return &DefaultCompiler{
		estimator: NewDefaultEstimator(),
		now:       time.Now,
	}
}

// Compile transforms a graph into an executable strategy definition. The
// caller should have validated the graph already; the compiler re-runs
// cycle detection defensively and fails closed instead of emitting code
// for a cyclic graph. Compile is total: it always returns a result and
// converts any internal panic into a runtime-category error.
func (c *DefaultCompiler) Compile(ctx context.Context, g *strategy.Graph, opts CompileOptions) (result *dto.CompilationResult) {
	started := c.now()
	result = &dto.CompilationResult{ID: uuid.NewString()}

	defer func() {
		result.Metrics.CompilationTime = c.now().Sub(started)
		metrics.CompileFinished(result.Success, result.Metrics.CompilationTime)
	}()
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Code = ""
			result.Errors = append(result.Errors, dto.CompilerIssue{
				Kind:    dto.CompilerIssueRuntime,
				Message: fmt.Sprintf("code generation failed: %v", r),
			})
		}
	}()

	if g == nil {
		result.Errors = append(result.Errors, dto.CompilerIssue{
			Kind:    dto.CompilerIssueSemantic,
			Message: dto.ErrNilGraph.Error(),
		})
		return result
	}

	// Phase 1: dependency analysis with defensive cycle re-check.
	res := analysis.Analyze(g)
	if len(res.Cycles) > 0 {
		for _, cycle := range res.Cycles {
			result.Errors = append(result.Errors, dto.CompilerIssue{
				Kind:    dto.CompilerIssueSemantic,
				Message: fmt.Sprintf("cannot compile cyclic dependency: %v", cycle),
				NodeID:  cycle[0],
			})
		}
		return result
	}
	if err := cancelled(ctx); err != nil {
		return abortCancelled(result)
	}

	// Phase 2: structured emission over the topological order.
	gen := newGenerator(g, res.Order, res.Dependencies)
	gen.generate(started)
	code := gen.unit.Render()
	result.Warnings = append(result.Warnings, gen.warnings...)
	if err := cancelled(ctx); err != nil {
		return abortCancelled(result)
	}

	// Phase 3: textual optimization.
	code = optimize(code, opts.Optimization)
	if err := cancelled(ctx); err != nil {
		return abortCancelled(result)
	}

	// Phase 4: generated-code verification.
	if !opts.SkipSyntaxCheck {
		if issues := checkSyntax(ctx, code); len(issues) > 0 {
			result.Errors = append(result.Errors, issues...)
			return result
		}
	}
	result.Warnings = append(result.Warnings, scanUnresolved(code)...)

	result.Success = true
	result.Code = code
	result.Metrics = c.buildMetrics(g, res, code)
	return result
}

// buildMetrics derives artifact metrics; compilation time is stamped by
// the deferred hook in Compile.
func (c *DefaultCompiler) buildMetrics(g *strategy.Graph, res *analysis.Result, code string) dto.CompileMetrics {
	est := c.estimator.Estimate(g, res.Dependencies)
	indicators := len(g.NodesOfKind(strategy.NodeKindIndicator))

	perf := 100 - len(g.Nodes) - 2*indicators
	if perf < 10 {
		perf = 10
	}

	return dto.CompileMetrics{
		CodeSize:             len(code),
		Complexity:           est.Complexity,
		EstimatedPerformance: perf,
		MemoryUsage:          est.MemoryUsage,
	}
}

func cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func abortCancelled(result *dto.CompilationResult) *dto.CompilationResult {
	result.Success = false
	result.Errors = append(result.Errors, dto.CompilerIssue{
		Kind:    dto.CompilerIssueRuntime,
		Message: dto.ErrCompileCancelled.Error(),
	})
	return result
}
