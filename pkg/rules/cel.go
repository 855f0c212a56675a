package rules

import (
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
)

// CELRule evaluates a CEL expression over a summary of the graph. It lets
// external compliance and policy modules attach checks at runtime without
// shipping Go code. The expression must evaluate to true for the rule to
// pass.
//
// Available variables:
//
//	nodeCount   int    number of nodes
//	edgeCount   int    number of edges
//	cycleCount  int    number of detected dependency cycles
//	complexity  int    weighted complexity estimate
//	latency     int    estimated per-bar latency units
//	kinds       list   distinct node kinds present (strings, sorted)
type CELRule struct {
	id       string
	category dto.Category
	severity dto.Severity
	message  string
	program  cel.Program
}

// celEnv builds the shared evaluation environment.
func celEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("nodeCount", cel.IntType),
		cel.Variable("edgeCount", cel.IntType),
		cel.Variable("cycleCount", cel.IntType),
		cel.Variable("complexity", cel.IntType),
		cel.Variable("latency", cel.IntType),
		cel.Variable("kinds", cel.ListType(cel.StringType)),
	)
}

// NewCELRule compiles expr and wraps it as a Rule. Compilation errors are
// returned to the caller; evaluation errors at validation time are
// treated like any other misbehaving rule (no result, logged).
func NewCELRule(id string, category dto.Category, severity dto.Severity, expr, message string) (*CELRule, error) {
	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", id, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("rule %q: expression must evaluate to bool, got %s", id, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", id, err)
	}
	return &CELRule{
		id:       id,
		category: category,
		severity: severity,
		message:  message,
		program:  program,
	}, nil
}

func (r *CELRule) ID() string             { return r.id }
func (r *CELRule) Category() dto.Category { return r.category }
func (r *CELRule) Severity() dto.Severity { return r.severity }

// Evaluate runs the compiled expression against the graph summary. An
// evaluation error panics into the engine's recovery path, matching the
// contract for misbehaving rules.
func (r *CELRule) Evaluate(ctx *Context) Result {
	// Sorted so expressions indexing into kinds stay deterministic.
	kinds := make([]string, 0, 8)
	for kind := range ctx.Graph.KindHistogram() {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	out, _, err := r.program.Eval(map[string]interface{}{
		"nodeCount":  len(ctx.Graph.Nodes),
		"edgeCount":  len(ctx.Graph.Edges),
		"cycleCount": len(ctx.Analysis.Cycles),
		"complexity": ctx.Performance.Complexity,
		"latency":    ctx.Performance.EstimatedLatency,
		"kinds":      kinds,
	})
	if err != nil {
		panic(fmt.Sprintf("cel rule %s: %v", r.id, err))
	}

	passed, ok := out.Value().(bool)
	if !ok {
		panic(fmt.Sprintf("cel rule %s: non-boolean result %T", r.id, out.Value()))
	}
	if passed {
		return Pass()
	}
	return Fail(r.message)
}
