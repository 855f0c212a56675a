// Package rules implements the validation rule engine for strategy
// graphs: an ordered, extensible registry of independent, side-effect-free
// checks whose aggregated results form the validation report that gates
// compilation and deployment.
package rules

import (
	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/analysis"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// Context carries everything one rule evaluation may inspect. Rules must
// treat it as read-only; the engine reuses one context across all rules
// in a single validation pass.
type Context struct {
	Graph       *strategy.Graph
	Analysis    *analysis.Result
	Performance dto.PerformanceEstimate
}

// Result is the outcome of one rule evaluation.
type Result struct {
	Passed     bool
	Message    string
	NodeIDs    []string
	Suggestion string
}

// Pass is the canonical passing result.
func Pass() Result {
	return Result{Passed: true}
}

// Fail builds a failing result with a message.
func Fail(message string) Result {
	return Result{Message: message}
}

// Rule is one independent, composable validation check.
// Implementations must be pure: no shared mutable state between rules, so
// parallel evaluation stays a safe future optimization.
type Rule interface {
	// ID uniquely identifies the rule within an engine.
	ID() string
	// Category groups the rule's diagnostics by concern.
	Category() dto.Category
	// Severity determines the bucket a failing result lands in.
	Severity() dto.Severity
	// Evaluate inspects the graph and returns a verdict. A panicking
	// implementation is tolerated by the engine and produces no result.
	Evaluate(ctx *Context) Result
}

// FuncRule adapts a function into a Rule; the usual way callers register
// custom checks at runtime.
type FuncRule struct {
	RuleID       string
	RuleCategory dto.Category
	RuleSeverity dto.Severity
	Fn           func(ctx *Context) Result
}

func (r FuncRule) ID() string             { return r.RuleID }
func (r FuncRule) Category() dto.Category { return r.RuleCategory }
func (r FuncRule) Severity() dto.Severity { return r.RuleSeverity }
func (r FuncRule) Evaluate(ctx *Context) Result {
	return r.Fn(ctx)
}
