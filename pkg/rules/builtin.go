package rules

import (
	"fmt"
	"strings"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// ComplexityCeiling is the weighted complexity above which the
// performance rule warns. Warnings never block compilation.
const ComplexityCeiling = 50

// BuiltinRules returns the minimum required rule set in evaluation order.
// Each rule is independently testable and side-effect-free.
func BuiltinRules() []Rule {
	return []Rule{
		inputPresenceRule(),
		outputPresenceRule(),
		connectivityRule(),
		acyclicityRule(),
		requiredInputRule(),
		complexityRule(),
		riskManagementRule(),
		positionSizingRule(),
	}
}

func inputPresenceRule() Rule {
	return FuncRule{
		RuleID:       "structure.input-presence",
		RuleCategory: dto.CategoryStructure,
		RuleSeverity: dto.SeverityError,
		Fn: func(ctx *Context) Result {
			if len(ctx.Graph.NodesOfKind(strategy.NodeKindInput)) > 0 {
				return Pass()
			}
			res := Fail("strategy has no data input node")
			res.Suggestion = "add a market data input so the strategy has something to react to"
			return res
		},
	}
}

func outputPresenceRule() Rule {
	return FuncRule{
		RuleID:       "structure.output-presence",
		RuleCategory: dto.CategoryStructure,
		RuleSeverity: dto.SeverityError,
		Fn: func(ctx *Context) Result {
			outputs := len(ctx.Graph.NodesOfKind(strategy.NodeKindOutput))
			signals := len(ctx.Graph.NodesOfKind(strategy.NodeKindSignal))
			if outputs+signals > 0 {
				return Pass()
			}
			res := Fail("strategy has no output or signal node")
			res.Suggestion = "add a signal node so the strategy can emit trade decisions"
			return res
		},
	}
}

// connectivityRule flags disconnected nodes. Input-kind nodes are exempt
// (a data feed may legitimately be wired up later); everything else must
// appear as source or target of at least one edge.
func connectivityRule() Rule {
	return FuncRule{
		RuleID:       "structure.connectivity",
		RuleCategory: dto.CategoryStructure,
		RuleSeverity: dto.SeverityWarning,
		Fn: func(ctx *Context) Result {
			connected := make(map[string]bool, len(ctx.Graph.Nodes))
			for _, e := range ctx.Graph.Edges {
				connected[e.Source] = true
				connected[e.Target] = true
			}
			var orphans []string
			for _, n := range ctx.Graph.Nodes {
				if n.Kind == strategy.NodeKindInput {
					continue
				}
				if !connected[n.ID] {
					orphans = append(orphans, n.ID)
				}
			}
			if len(orphans) == 0 {
				return Pass()
			}
			return Result{
				Message:    fmt.Sprintf("disconnected nodes: %s", strings.Join(orphans, ", ")),
				NodeIDs:    orphans,
				Suggestion: "connect or remove nodes that take no part in the strategy",
			}
		},
	}
}

// acyclicityRule delegates to the analyzer; a distinct failing result is
// produced per cycle by the engine (see Engine.Validate).
func acyclicityRule() Rule {
	return FuncRule{
		RuleID:       "structure.acyclicity",
		RuleCategory: dto.CategoryStructure,
		RuleSeverity: dto.SeverityError,
		Fn: func(ctx *Context) Result {
			if ctx.Analysis.IsAcyclic() {
				return Pass()
			}
			// The engine expands each cycle into its own issue; the result
			// here reports the first so a bare rule evaluation stays useful.
			first := ctx.Analysis.Cycles[0]
			return Result{
				Message:    fmt.Sprintf("dependency cycle: %s", strings.Join(first, " -> ")),
				NodeIDs:    first,
				Suggestion: "break the loop; strategy execution needs a deterministic order",
			}
		},
	}
}

// requiredInputRule reports unmet required slots. The engine expands a
// failure into one error per slot (see Engine.evaluate); the aggregate
// result here keeps a bare rule evaluation useful.
func requiredInputRule() Rule {
	return FuncRule{
		RuleID:       "logic.required-inputs",
		RuleCategory: dto.CategoryLogic,
		RuleSeverity: dto.SeverityError,
		Fn: func(ctx *Context) Result {
			var unmet []string
			var nodeIDs []string
			for _, n := range ctx.Graph.Nodes {
				for _, slot := range n.RequiredUnbound() {
					unmet = append(unmet, fmt.Sprintf("%s.%s", n.ID, slot.Name))
					nodeIDs = append(nodeIDs, n.ID)
				}
			}
			if len(unmet) == 0 {
				return Pass()
			}
			return Result{
				Message:    fmt.Sprintf("required inputs not connected: %s", strings.Join(unmet, ", ")),
				NodeIDs:    nodeIDs,
				Suggestion: "wire every required input before compiling",
			}
		},
	}
}

func complexityRule() Rule {
	return FuncRule{
		RuleID:       "performance.complexity-ceiling",
		RuleCategory: dto.CategoryPerformance,
		RuleSeverity: dto.SeverityWarning,
		Fn: func(ctx *Context) Result {
			if ctx.Performance.Complexity <= ComplexityCeiling {
				return Pass()
			}
			return Result{
				Message: fmt.Sprintf("weighted complexity %d exceeds ceiling %d",
					ctx.Performance.Complexity, ComplexityCeiling),
				Suggestion: "consider splitting heavy logic into separate strategies",
			}
		},
	}
}

func riskManagementRule() Rule {
	return FuncRule{
		RuleID:       "risk.controls-present",
		RuleCategory: dto.CategoryRisk,
		RuleSeverity: dto.SeverityWarning,
		Fn: func(ctx *Context) Result {
			for _, n := range ctx.Graph.Nodes {
				if n.IsRiskControl() {
					return Pass()
				}
			}
			res := Fail("no risk-control node (stop loss, max drawdown, ...)")
			res.Suggestion = "add a risk node before deploying with real capital"
			return res
		},
	}
}

func positionSizingRule() Rule {
	return FuncRule{
		RuleID:       "risk.position-sizing",
		RuleCategory: dto.CategoryRisk,
		RuleSeverity: dto.SeverityInfo,
		Fn: func(ctx *Context) Result {
			for _, n := range ctx.Graph.Nodes {
				if n.IsPositionSizing() {
					return Pass()
				}
			}
			return Fail("no explicit position-sizing logic; the execution engine default applies")
		},
	}
}
