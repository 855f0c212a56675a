package strategygraph

import (
	"context"
	"time"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/usecases"
	coregraph "github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
	"github.com/bigking1998/algo-trade-bot-sub010/pkg/rules"
)

// Re-export core graph types for convenience
type Graph = coregraph.Graph
type Node = coregraph.Node
type Edge = coregraph.Edge
type NodeKind = coregraph.NodeKind
type InputSlot = coregraph.InputSlot

// Re-export report types consumed by the dashboard
type ValidationReport = dto.ValidationReport
type CompilationResult = dto.CompilationResult
type OptimizationLevel = dto.OptimizationLevel
type Severity = dto.Severity
type Category = dto.Category

const (
	KindInput      = coregraph.NodeKindInput
	KindIndicator  = coregraph.NodeKindIndicator
	KindCondition  = coregraph.NodeKindCondition
	KindLogic      = coregraph.NodeKindLogic
	KindSignal     = coregraph.NodeKindSignal
	KindOutput     = coregraph.NodeKindOutput
	KindMLModel    = coregraph.NodeKindMLModel
	KindCustomCode = coregraph.NodeKindCustomCode
	KindRisk       = coregraph.NodeKindRisk
	KindSizing     = coregraph.NodeKindSizing

	OptimizationNone       = dto.OptimizationNone
	OptimizationBasic      = dto.OptimizationBasic
	OptimizationAggressive = dto.OptimizationAggressive

	SeverityError   = dto.SeverityError
	SeverityWarning = dto.SeverityWarning
	SeverityInfo    = dto.SeverityInfo

	CategoryStructure   = dto.CategoryStructure
	CategoryLogic       = dto.CategoryLogic
	CategoryPerformance = dto.CategoryPerformance
	CategoryRisk        = dto.CategoryRisk
	CategoryCompliance  = dto.CategoryCompliance
)

// Rule is re-exported so external policy modules can register checks.
type Rule = rules.Rule

// Compiler is the façade over the full pipeline: dependency analysis,
// rule validation, performance estimation, and code generation. The
// default compiler uses in-memory components and is safe for concurrent
// calls; every operation works on an immutable snapshot of its input.
type Compiler struct {
	engine   *rules.Engine
	compiler usecases.StrategyCompiler
}

// New constructs a compiler with the built-in rule set.
func New() *Compiler {
	return &Compiler{
		engine:   rules.NewEngine(),
		compiler: usecases.NewDefaultCompiler(),
	}
}

// Validate runs every registered rule against the graph and returns a
// fresh report. Called by the editor on every graph mutation.
func (c *Compiler) Validate(g *Graph) *ValidationReport {
	return c.engine.Validate(g)
}

// Compile transforms the graph into an executable strategy definition.
// It re-checks cycles defensively even if Validate was skipped.
func (c *Compiler) Compile(ctx context.Context, g *Graph, level OptimizationLevel) *CompilationResult {
	return c.compiler.Compile(ctx, g, usecases.CompileOptions{Optimization: level})
}

// ValidateAndCompile runs the full pipeline; compilation only happens
// when the report carries zero blocking errors.
func (c *Compiler) ValidateAndCompile(ctx context.Context, g *Graph, level OptimizationLevel) (*ValidationReport, *CompilationResult) {
	report := c.engine.Validate(g)
	if !report.IsValid {
		return report, nil
	}
	return report, c.Compile(ctx, g, level)
}

// RegisterRule adds or replaces a validation rule at runtime.
func (c *Compiler) RegisterRule(rule Rule) {
	c.engine.Register(rule)
}

// RegisterExpressionRule compiles a CEL expression into a rule and
// registers it. Used by compliance modules that configure policy as data.
func (c *Compiler) RegisterExpressionRule(id string, category Category, severity Severity, expr, message string) error {
	rule, err := rules.NewCELRule(id, category, severity, expr, message)
	if err != nil {
		return err
	}
	c.engine.Register(rule)
	return nil
}

// RemoveRule removes a rule by ID; returns true if it existed.
func (c *Compiler) RemoveRule(ruleID string) bool {
	return c.engine.Remove(ruleID)
}

// ListRules returns registered rule IDs in evaluation order.
func (c *Compiler) ListRules() []string {
	return c.engine.Rules()
}

// NewScheduler wires this compiler into a debounced revalidation
// scheduler for editor-driven workloads.
func (c *Compiler) NewScheduler(debounce time.Duration, level OptimizationLevel) *usecases.Scheduler {
	return usecases.NewScheduler(c.engine, c.compiler,
		usecases.WithDebounce(debounce),
		usecases.WithCompileOptions(usecases.CompileOptions{Optimization: level}))
}
