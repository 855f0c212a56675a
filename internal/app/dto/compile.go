package dto

import "time"

// OptimizationLevel selects the textual optimization pass applied to
// generated code. Passes never alter emitted semantics or identifiers.
type OptimizationLevel string

const (
	OptimizationNone       OptimizationLevel = "none"
	OptimizationBasic      OptimizationLevel = "basic"
	OptimizationAggressive OptimizationLevel = "aggressive"
)

// CompilerIssueKind classifies compiler diagnostics.
type CompilerIssueKind string

const (
	// CompilerIssueSemantic covers structural defects (cycles, missing nodes)
	// found during the defensive re-analysis.
	CompilerIssueSemantic CompilerIssueKind = "semantic"
	// CompilerIssueSyntax covers generated-code parse failures.
	CompilerIssueSyntax CompilerIssueKind = "syntax"
	// CompilerIssueRuntime covers unexpected generation failures converted
	// from recovered panics.
	CompilerIssueRuntime CompilerIssueKind = "runtime"
)

// CompilerIssue is one compiler error or warning, attributed to a node
// where possible so the editor can highlight the offending element.
type CompilerIssue struct {
	Kind    CompilerIssueKind `json:"kind"`
	Message string            `json:"message"`
	NodeID  string            `json:"node_id,omitempty"`
}

// CompileMetrics summarizes the compiled artifact.
type CompileMetrics struct {
	CodeSize             int           `json:"code_size"` // characters
	Complexity           int           `json:"complexity"`
	EstimatedPerformance int           `json:"estimated_performance"` // 0..100
	MemoryUsage          int64         `json:"memory_usage"`          // bytes
	CompilationTime      time.Duration `json:"compilation_time"`
}

// CompilationResult is the total outcome of one compile call. The compiler
// always returns a result; it never propagates a panic or error to the caller.
type CompilationResult struct {
	ID       string          `json:"id"` // unique compile ID for traceability
	Success  bool            `json:"success"`
	Code     string          `json:"code,omitempty"`
	Errors   []CompilerIssue `json:"errors,omitempty"`
	Warnings []CompilerIssue `json:"warnings,omitempty"`
	Metrics  CompileMetrics  `json:"metrics"`
}
