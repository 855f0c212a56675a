package rules

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/dto"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/app/usecases"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/analysis"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/infrastructure/metrics"
)

// Score constants: every error and warning subtracts, structural health
// adds back, and the result clamps to [0,100].
const (
	baseScore      = 100
	errorPenalty   = 15
	warningPenalty = 5
	structureBonus = 10
	maxScore       = 100
	minScore       = 0
)

// Engine evaluates an ordered registry of rules against graph snapshots.
//
// Rules are independent: the engine runs every registered rule
// unconditionally and aggregates results; one rule's failure never skips
// another. A panicking rule is recovered, logged, counted, and treated as
// "produced no result".
//
// Thread-safe: Register/Remove/Rules/Validate may be called concurrently.
type Engine struct {
	mu        sync.RWMutex
	rules     []Rule
	estimator usecases.Estimator
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEstimator overrides the default performance estimator.
func WithEstimator(est usecases.Estimator) EngineOption {
	return func(e *Engine) {
		if est != nil {
			e.estimator = est
		}
	}
}

// WithEngineLogger overrides the default logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine pre-loaded with the built-in rule set.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		rules:     BuiltinRules(),
		estimator: usecases.NewDefaultEstimator(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	metrics.SetRegisteredRules(len(e.rules))
	return e
}

// Register appends a rule to the registry, replacing any rule with the
// same ID in place so ordering stays stable.
func (e *Engine) Register(rule Rule) {
	if rule == nil || rule.ID() == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.rules {
		if existing.ID() == rule.ID() {
			e.rules[i] = rule
			return
		}
	}
	e.rules = append(e.rules, rule)
	metrics.SetRegisteredRules(len(e.rules))
}

// Remove deletes the rule with the given ID. Returns true if found.
func (e *Engine) Remove(ruleID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, rule := range e.rules {
		if rule.ID() == ruleID {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			metrics.SetRegisteredRules(len(e.rules))
			return true
		}
	}
	return false
}

// Rules returns the registered rule IDs in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.rules))
	for _, rule := range e.rules {
		ids = append(ids, rule.ID())
	}
	return ids
}

// Validate runs every registered rule against one immutable graph
// snapshot and assembles a fresh report. Validate is total: it never
// panics, and identical input yields an identical report.
func (e *Engine) Validate(g *strategy.Graph) *dto.ValidationReport {
	if g == nil {
		g = &strategy.Graph{}
	}

	res := analysis.Analyze(g)
	ctx := &Context{
		Graph:       g,
		Analysis:    res,
		Performance: e.estimator.Estimate(g, res.Dependencies),
	}

	report := &dto.ValidationReport{
		Errors:      []dto.Issue{},
		Warnings:    []dto.Issue{},
		Info:        []dto.Issue{},
		Performance: ctx.Performance,
		Structure: dto.StructureSummary{
			NodeCount:    len(g.Nodes),
			EdgeCount:    len(g.Edges),
			DepthScore:   analysis.LongestChain(g, res.Dependencies),
			BreadthScore: analysis.KindBreadth(g),
			KindCounts:   g.KindHistogram(),
		},
		Dependencies: dto.DependencyStatuses(g, res),
	}

	e.mu.RLock()
	ordered := make([]Rule, len(e.rules))
	copy(ordered, e.rules)
	e.mu.RUnlock()

	for _, rule := range ordered {
		for _, issue := range e.evaluate(rule, ctx) {
			switch issue.Severity {
			case dto.SeverityError:
				report.Errors = append(report.Errors, issue)
			case dto.SeverityWarning:
				report.Warnings = append(report.Warnings, issue)
			default:
				report.Info = append(report.Info, issue)
			}
		}
	}

	// Dangling edge references surface as missing-dependency errors; they
	// are structural defects the model layer deliberately lets through.
	for _, m := range res.Missing {
		report.Errors = append(report.Errors, dto.Issue{
			RuleID:   "structure.missing-dependency",
			Category: dto.CategoryStructure,
			Severity: dto.SeverityError,
			Message:  fmt.Sprintf("node %q references missing node %q", m.NodeID, m.Ref),
			NodeIDs:  []string{m.NodeID},
		})
	}

	report.IsValid = len(report.Errors) == 0
	report.Score = e.score(report, res)
	metrics.ValidationRun(len(report.Errors))
	return report
}

// evaluate runs one rule, recovering panics. Multi-finding rules are
// expanded here: acyclicity yields one issue per distinct cycle and
// required-inputs one issue per unmet slot, so each defect carries its
// own error penalty in the score.
func (e *Engine) evaluate(rule Rule, ctx *Context) (issues []dto.Issue) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RulePanicked()
			e.logger.Warn("validation rule panicked",
				"rule", rule.ID(), "panic", fmt.Sprint(r))
			issues = nil
		}
	}()

	result := rule.Evaluate(ctx)
	if result.Passed {
		return nil
	}

	if rule.ID() == "structure.acyclicity" {
		for _, cycle := range ctx.Analysis.Cycles {
			issues = append(issues, dto.Issue{
				RuleID:     rule.ID(),
				Category:   rule.Category(),
				Severity:   rule.Severity(),
				Message:    fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")),
				NodeIDs:    cycle,
				Suggestion: result.Suggestion,
			})
		}
		return issues
	}

	if rule.ID() == "logic.required-inputs" {
		for _, n := range ctx.Graph.Nodes {
			for _, slot := range n.RequiredUnbound() {
				issues = append(issues, dto.Issue{
					RuleID:     rule.ID(),
					Category:   rule.Category(),
					Severity:   rule.Severity(),
					Message:    fmt.Sprintf("required input %s.%s is not connected", n.ID, slot.Name),
					NodeIDs:    []string{n.ID},
					Suggestion: result.Suggestion,
				})
			}
		}
		return issues
	}

	return []dto.Issue{{
		RuleID:     rule.ID(),
		Category:   rule.Category(),
		Severity:   rule.Severity(),
		Message:    result.Message,
		NodeIDs:    result.NodeIDs,
		Suggestion: result.Suggestion,
	}}
}

// score applies the penalty/bonus model and clamps to [0,100].
func (e *Engine) score(report *dto.ValidationReport, res *analysis.Result) int {
	score := baseScore
	score -= errorPenalty * len(report.Errors)
	score -= warningPenalty * len(report.Warnings)

	hasInput := report.Structure.KindCounts[strategy.NodeKindInput] > 0
	hasOutput := report.Structure.KindCounts[strategy.NodeKindOutput]+
		report.Structure.KindCounts[strategy.NodeKindSignal] > 0
	if hasInput && hasOutput {
		score += structureBonus
	}
	// Connectivity and acyclicity are only meaningful bonuses once the
	// graph actually has nodes; an empty canvas earns nothing.
	if report.Structure.NodeCount > 0 {
		if fullyConnected(report) {
			score += structureBonus
		}
		if res.IsAcyclic() {
			score += structureBonus
		}
	}

	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return score
}

// fullyConnected is true when the connectivity rule raised no issue.
func fullyConnected(report *dto.ValidationReport) bool {
	for _, w := range report.Warnings {
		if w.RuleID == "structure.connectivity" {
			return false
		}
	}
	return true
}
