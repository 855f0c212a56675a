// Package validation provides model definitions with validation tags
package validation

import (
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// InputSlotConfig mirrors one named node input as submitted by the editor.
type InputSlotConfig struct {
	Name      string `json:"name" validate:"required,min=1,max=50"`
	Required  bool   `json:"required"`
	Connected bool   `json:"connected"`
}

// NodeConfig represents a strategy node as submitted by the editor
// PRINCIPLES:
// - Single Responsibility: Node payload shape only
// - Validation: Comprehensive validation tags
type NodeConfig struct {
	ID         string                 `json:"id" validate:"required,node_id"`
	Kind       string                 `json:"kind" validate:"required,node_kind"`
	Label      string                 `json:"label" validate:"required,min=1,max=100"`
	Category   string                 `json:"category,omitempty" validate:"omitempty,max=50"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Inputs     []InputSlotConfig      `json:"inputs,omitempty" validate:"dive"`
}

// EdgeConfig represents a directed connection as submitted by the editor.
type EdgeConfig struct {
	Source string `json:"source" validate:"required,node_id"`
	Target string `json:"target" validate:"required,node_id"`
}

// GraphConfig represents a complete strategy graph payload.
type GraphConfig struct {
	ID    string       `json:"id,omitempty" validate:"omitempty,max=100"`
	Name  string       `json:"name" validate:"required,min=1,max=200"`
	Nodes []NodeConfig `json:"nodes" validate:"dive"`
	Edges []EdgeConfig `json:"edges" validate:"dive"`
}

// Validate implements custom cross-field validation for GraphConfig.
// Duplicate node IDs are rejected here; dangling edge references are not.
// Those are a semantic validation concern reported by the rule engine, so
// a partially wired editor graph still decodes.
func (gc *GraphConfig) Validate() error {
	var errors ValidationErrors

	nodeIDs := make(map[string]bool, len(gc.Nodes))
	for _, node := range gc.Nodes {
		if nodeIDs[node.ID] {
			errors = append(errors, ValidationError{
				Field:   "nodes",
				Value:   node.ID,
				Message: "duplicate node ID",
			})
		}
		nodeIDs[node.ID] = true
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ToGraph converts a validated config into the core model, preserving
// editor node order.
func (gc *GraphConfig) ToGraph() *strategy.Graph {
	g := &strategy.Graph{
		ID:   gc.ID,
		Name: gc.Name,
	}
	for _, nc := range gc.Nodes {
		node := &strategy.Node{
			ID:         nc.ID,
			Kind:       strategy.NodeKind(nc.Kind),
			Label:      nc.Label,
			Category:   nc.Category,
			Parameters: nc.Parameters,
		}
		for _, slot := range nc.Inputs {
			node.Inputs = append(node.Inputs, strategy.InputSlot{
				Name:      slot.Name,
				Required:  slot.Required,
				Connected: slot.Connected,
			})
		}
		g.Nodes = append(g.Nodes, node)
	}
	for _, ec := range gc.Edges {
		g.Edges = append(g.Edges, &strategy.Edge{Source: ec.Source, Target: ec.Target})
	}
	return g
}

// CompileRequest is the payload for an on-demand compile call.
type CompileRequest struct {
	Graph        GraphConfig `json:"graph" validate:"required"`
	Optimization string      `json:"optimization,omitempty" validate:"omitempty,optimization_level"`
}

// Validate delegates cross-field checks to the embedded graph payload.
func (cr *CompileRequest) Validate() error {
	return cr.Graph.Validate()
}
