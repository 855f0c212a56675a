// Package strategy provides edge definitions
package strategy

// Edge represents a directed connection between nodes: the target node
// depends on (consumes the output of) the source node.
// PRINCIPLES:
// - KISS: Simple edge representation
// - SRP: Only responsible for edge data
type Edge struct {
	Source string `json:"source"` // Source node ID
	Target string `json:"target"` // Target node ID
}

// Validate ensures edge integrity
// PRINCIPLES:
// - SRP: Single responsibility - validation only
// - KISS: Simple validation, <10 lines
func (e *Edge) Validate() error {
	if e.Source == "" {
		return ErrInvalidSource
	}
	if e.Target == "" {
		return ErrInvalidTarget
	}
	return nil
}
