package strategygraph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigking1998/algo-trade-bot-sub010/pkg/rules"
)

func minimalGraph(t *testing.T) *Graph {
	t.Helper()
	g := &Graph{Name: "minimal"}
	require.NoError(t, g.AddNode(&Node{ID: "in1", Kind: KindInput, Label: "Feed"}))
	require.NoError(t, g.AddNode(&Node{ID: "sig1", Kind: KindSignal, Label: "Buy"}))
	require.NoError(t, g.AddEdge(&Edge{Source: "in1", Target: "sig1"}))
	return g
}

func TestCompiler_ValidateAndCompile(t *testing.T) {
	c := New()

	report, result := c.ValidateAndCompile(context.Background(), minimalGraph(t), OptimizationBasic)
	require.True(t, report.IsValid)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Contains(t, result.Code, "module.exports")
}

func TestCompiler_ValidateAndCompile_GateOnErrors(t *testing.T) {
	c := New()
	empty := &Graph{Name: "empty"}

	report, result := c.ValidateAndCompile(context.Background(), empty, OptimizationBasic)
	assert.False(t, report.IsValid)
	assert.Nil(t, result, "compilation never runs for an invalid graph")
}

func TestCompiler_RuleLifecycle(t *testing.T) {
	c := New()
	base := len(c.ListRules())

	c.RegisterRule(rules.FuncRule{
		RuleID:       "compliance.max-nodes",
		RuleCategory: CategoryCompliance,
		RuleSeverity: SeverityError,
		Fn: func(ctx *rules.Context) rules.Result {
			if len(ctx.Graph.Nodes) > 3 {
				return rules.Fail("strategy exceeds the account node limit")
			}
			return rules.Pass()
		},
	})
	assert.Len(t, c.ListRules(), base+1)

	report := c.Validate(minimalGraph(t))
	assert.True(t, report.IsValid)

	big := minimalGraph(t)
	require.NoError(t, big.AddNode(&Node{ID: "x1", Kind: KindIndicator, Label: "X1"}))
	require.NoError(t, big.AddNode(&Node{ID: "x2", Kind: KindIndicator, Label: "X2"}))
	require.NoError(t, big.AddEdge(&Edge{Source: "in1", Target: "x1"}))
	require.NoError(t, big.AddEdge(&Edge{Source: "in1", Target: "x2"}))
	report = c.Validate(big)
	assert.False(t, report.IsValid)

	assert.True(t, c.RemoveRule("compliance.max-nodes"))
	assert.Len(t, c.ListRules(), base)
}

func TestCompiler_RegisterExpressionRule(t *testing.T) {
	c := New()

	err := c.RegisterExpressionRule("compliance.no-heavy-models",
		CategoryCompliance, SeverityError,
		`!kinds.exists(k, k == "ml-model")`,
		"ml models are restricted on this account tier")
	require.NoError(t, err)

	report := c.Validate(minimalGraph(t))
	assert.True(t, report.IsValid)

	g := minimalGraph(t)
	require.NoError(t, g.AddNode(&Node{ID: "ml", Kind: KindMLModel, Label: "Predictor"}))
	require.NoError(t, g.AddEdge(&Edge{Source: "in1", Target: "ml"}))
	require.NoError(t, g.AddEdge(&Edge{Source: "ml", Target: "sig1"}))

	report = c.Validate(g)
	assert.False(t, report.IsValid)

	found := false
	for _, issue := range report.Errors {
		if issue.RuleID == "compliance.no-heavy-models" {
			found = true
			assert.Equal(t, "ml models are restricted on this account tier", issue.Message)
		}
	}
	assert.True(t, found)
}

func TestCompiler_RegisterExpressionRule_RejectsBadExpressions(t *testing.T) {
	c := New()

	err := c.RegisterExpressionRule("bad.syntax", CategoryCompliance, SeverityError,
		`nodeCount >`, "broken")
	assert.Error(t, err)

	err = c.RegisterExpressionRule("bad.type", CategoryCompliance, SeverityError,
		`nodeCount + 1`, "not boolean")
	assert.Error(t, err)
}

func TestCompiler_NewScheduler(t *testing.T) {
	c := New()
	s := c.NewScheduler(10*time.Millisecond, OptimizationNone)
	defer s.Close()

	require.NoError(t, s.Submit(minimalGraph(t)))

	select {
	case res := <-s.Results():
		require.NotNil(t, res.Report)
		assert.True(t, res.Report.IsValid)
		require.NotNil(t, res.Compilation)
		assert.True(t, res.Compilation.Success)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled pass never completed")
	}
}
