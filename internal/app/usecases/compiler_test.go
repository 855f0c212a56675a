package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

func issueKinds(issues []dto.CompilerIssue) []dto.CompilerIssueKind {
	kinds := make([]dto.CompilerIssueKind, 0, len(issues))
	for _, issue := range issues {
		kinds = append(kinds, issue.Kind)
	}
	return kinds
}

func TestCompile_ValidGraph(t *testing.T) {
	c := NewDefaultCompiler()
	result := c.Compile(context.Background(), crossoverGraph(t), CompileOptions{
		Optimization: dto.OptimizationBasic,
	})

	require.True(t, result.Success, "errors: %+v", result.Errors)
	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.Code)
	assert.Empty(t, result.Errors)
	assert.Equal(t, len(result.Code), result.Metrics.CodeSize)
	assert.Equal(t, 1+2+2+3+4+1, result.Metrics.Complexity)
	assert.Greater(t, result.Metrics.EstimatedPerformance, 0)
	assert.Greater(t, result.Metrics.MemoryUsage, int64(0))
	assert.Greater(t, result.Metrics.CompilationTime, time.Duration(0))
}

func TestCompile_UniqueIDs(t *testing.T) {
	c := NewDefaultCompiler()
	g := crossoverGraph(t)

	first := c.Compile(context.Background(), g, CompileOptions{})
	second := c.Compile(context.Background(), g, CompileOptions{})
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCompile_NilGraph(t *testing.T) {
	result := NewDefaultCompiler().Compile(context.Background(), nil, CompileOptions{})

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, dto.CompilerIssueSemantic, result.Errors[0].Kind)
}

func TestCompile_CyclicGraphFailsClosed(t *testing.T) {
	g := strategy.NewGraph("cyclic")
	require.NoError(t, g.AddNode(&strategy.Node{ID: "a", Kind: strategy.NodeKindLogic, Label: "A"}))
	require.NoError(t, g.AddNode(&strategy.Node{ID: "b", Kind: strategy.NodeKindLogic, Label: "B"}))
	require.NoError(t, g.AddEdge(&strategy.Edge{Source: "a", Target: "b"}))
	require.NoError(t, g.AddEdge(&strategy.Edge{Source: "b", Target: "a"}))

	// Called directly, without prior validation.
	result := NewDefaultCompiler().Compile(context.Background(), g, CompileOptions{})

	assert.False(t, result.Success)
	assert.Empty(t, result.Code, "no partial code for cyclic graphs")
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, issueKinds(result.Errors), dto.CompilerIssueSemantic)
	assert.NotEmpty(t, result.Errors[0].NodeID, "cycle errors name an offending node")
}

func TestCompile_OneSemanticErrorPerCycle(t *testing.T) {
	g := strategy.NewGraph("two-cycles")
	for _, id := range []string{"a", "b", "x", "y"} {
		require.NoError(t, g.AddNode(&strategy.Node{ID: id, Kind: strategy.NodeKindLogic, Label: id}))
	}
	for _, e := range [][2]string{{"a", "b"}, {"b", "a"}, {"x", "y"}, {"y", "x"}} {
		require.NoError(t, g.AddEdge(&strategy.Edge{Source: e[0], Target: e[1]}))
	}

	result := NewDefaultCompiler().Compile(context.Background(), g, CompileOptions{})
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 2)
}

func TestCompile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewDefaultCompiler().Compile(ctx, crossoverGraph(t), CompileOptions{})

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, dto.CompilerIssueRuntime, result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message, "cancelled")
}

// panickingEstimator triggers the compiler's top-level recovery path.
type panickingEstimator struct{}

func (panickingEstimator) Estimate(*strategy.Graph, map[string][]string) dto.PerformanceEstimate {
	panic("estimator bug")
}

func TestCompile_RecoversInternalPanic(t *testing.T) {
	c := &DefaultCompiler{estimator: panickingEstimator{}, now: time.Now}

	var result *dto.CompilationResult
	require.NotPanics(t, func() {
		result = c.Compile(context.Background(), crossoverGraph(t), CompileOptions{SkipSyntaxCheck: true})
	})

	assert.False(t, result.Success)
	assert.Empty(t, result.Code)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, dto.CompilerIssueRuntime, result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message, "estimator bug")
}

func TestCompile_AggressiveTwiceStripsCommentsKeepsIdentifiers(t *testing.T) {
	g := strategy.NewGraph("two-node")
	require.NoError(t, g.AddNode(&strategy.Node{ID: "in1", Kind: strategy.NodeKindInput, Label: "Feed"}))
	require.NoError(t, g.AddNode(&strategy.Node{ID: "sig1", Kind: strategy.NodeKindSignal, Label: "Go Long"}))
	require.NoError(t, g.AddEdge(&strategy.Edge{Source: "in1", Target: "sig1"}))

	c := NewDefaultCompiler()
	opts := CompileOptions{Optimization: dto.OptimizationAggressive}

	for i := 0; i < 2; i++ {
		result := c.Compile(context.Background(), g, opts)
		require.True(t, result.Success, "errors: %+v", result.Errors)
		assert.NotContains(t, result.Code, "//", "aggressive output carries no comment lines")
		assert.Contains(t, result.Code, "strategy.slots.golong")
		assert.Contains(t, result.Code, `signals.push({ id: "sig1", side: "buy" });`)
	}
}

func TestCompile_GeneratedCodeParses(t *testing.T) {
	// The default pipeline runs the real parser; success implies the
	// emitted text is syntactically valid JavaScript.
	result := NewDefaultCompiler().Compile(context.Background(), crossoverGraph(t), CompileOptions{})
	require.True(t, result.Success, "errors: %+v", result.Errors)

	for _, w := range result.Warnings {
		assert.NotContains(t, w.Message, "undefined", "well-formed graph resolves every reference")
	}
}

func TestCheckSyntax(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantIssue bool
	}{
		{name: "valid program", code: "const a = 1;\nfunction f() { return a; }\n"},
		{name: "unbalanced brace", code: "function f() {\n", wantIssue: true},
		{name: "stray operator", code: "const a = ;\n", wantIssue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := checkSyntax(context.Background(), tt.code)
			if tt.wantIssue {
				require.NotEmpty(t, issues)
				assert.Equal(t, dto.CompilerIssueSyntax, issues[0].Kind)
			} else {
				assert.Empty(t, issues)
			}
		})
	}
}

func TestScanUnresolved(t *testing.T) {
	assert.Empty(t, scanUnresolved("const a = 1;"))

	issues := scanUnresolved("const a = undefined;")
	require.Len(t, issues, 1)
	assert.Equal(t, dto.CompilerIssueSemantic, issues[0].Kind)
	assert.True(t, strings.Contains(issues[0].Message, "undefined"))
}
