package dto

import (
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/analysis"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// Severity classifies a validation issue.
type Severity string

const (
	// SeverityError blocks compilation and deployment.
	SeverityError Severity = "error"
	// SeverityWarning flags risk but never blocks.
	SeverityWarning Severity = "warning"
	// SeverityInfo is purely advisory.
	SeverityInfo Severity = "info"
)

// Category groups validation issues by concern.
type Category string

const (
	CategoryStructure   Category = "structure"
	CategoryLogic       Category = "logic"
	CategoryPerformance Category = "performance"
	CategoryRisk        Category = "risk"
	CategoryCompliance  Category = "compliance"
)

// Issue is a single diagnostic produced by one validation rule.
type Issue struct {
	RuleID     string   `json:"rule_id"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	NodeIDs    []string `json:"node_ids,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Scalability buckets the expected scaling behavior of a strategy.
type Scalability string

const (
	ScalabilityExcellent Scalability = "excellent"
	ScalabilityGood      Scalability = "good"
	ScalabilityFair      Scalability = "fair"
	ScalabilityPoor      Scalability = "poor"
)

// PerformanceEstimate is a deliberately simple additive cost model over
// node composition. It is advisory: exact runtime cost is only knowable
// after execution, which is outside this core.
type PerformanceEstimate struct {
	Complexity       int         `json:"complexity"`
	EstimatedLatency int         `json:"estimated_latency"` // abstract units per bar
	MemoryUsage      int64       `json:"memory_usage"`      // bytes
	Scalability      Scalability `json:"scalability"`
	Bottlenecks      []string    `json:"bottlenecks,omitempty"`
}

// StructureSummary carries derived shape metrics for UI diagnostics.
type StructureSummary struct {
	NodeCount    int                       `json:"node_count"`
	EdgeCount    int                       `json:"edge_count"`
	DepthScore   int                       `json:"depth_score"`   // longest dependency chain
	BreadthScore int                       `json:"breadth_score"` // distinct node kinds
	KindCounts   map[strategy.NodeKind]int `json:"kind_counts,omitempty"`
}

// DependencyStatus reports the resolution state of one node's inputs.
type DependencyStatus struct {
	NodeID     string   `json:"node_id"`
	DependsOn  []string `json:"depends_on,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// ValidationReport is the immutable outcome of one validation pass.
// A fresh report is produced on every run; it is never mutated in place.
type ValidationReport struct {
	IsValid      bool                `json:"is_valid"`
	Score        int                 `json:"score"` // 0..100
	Errors       []Issue             `json:"errors"`
	Warnings     []Issue             `json:"warnings"`
	Info         []Issue             `json:"info"`
	Performance  PerformanceEstimate `json:"performance"`
	Structure    StructureSummary    `json:"structure"`
	Dependencies []DependencyStatus  `json:"dependencies"`
}

// AllIssues returns errors, warnings, and info in severity order.
func (r *ValidationReport) AllIssues() []Issue {
	all := make([]Issue, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	all = append(all, r.Info...)
	return all
}

// DependencyStatuses converts an analyzer result into per-node statuses,
// in graph order.
func DependencyStatuses(g *strategy.Graph, res *analysis.Result) []DependencyStatus {
	unresolved := make(map[string][]string)
	for _, m := range res.Missing {
		unresolved[m.NodeID] = append(unresolved[m.NodeID], m.Ref)
	}
	statuses := make([]DependencyStatus, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		statuses = append(statuses, DependencyStatus{
			NodeID:     n.ID,
			DependsOn:  res.Dependencies[n.ID],
			Unresolved: unresolved[n.ID],
		})
	}
	return statuses
}
