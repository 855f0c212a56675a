// Package strategy provides node definitions
package strategy

// NodeKind represents the kind of strategy node
type NodeKind string

const (
	// NodeKindInput represents a market data input node
	NodeKindInput NodeKind = "input"
	// NodeKindIndicator represents a technical indicator node
	NodeKindIndicator NodeKind = "indicator"
	// NodeKindCondition represents a condition node (comparison, crossover, ...)
	NodeKindCondition NodeKind = "condition"
	// NodeKindLogic represents a boolean combinator node
	NodeKindLogic NodeKind = "logic"
	// NodeKindSignal represents a trade signal node
	NodeKindSignal NodeKind = "signal"
	// NodeKindOutput represents an output/broker node
	NodeKindOutput NodeKind = "output"
	// NodeKindMLModel represents a machine-learning model node
	NodeKindMLModel NodeKind = "ml-model"
	// NodeKindCustomCode represents a user-supplied code node
	NodeKindCustomCode NodeKind = "custom-code"
	// NodeKindRisk represents a risk-control node (stop loss, max drawdown, ...)
	NodeKindRisk NodeKind = "risk"
	// NodeKindSizing represents a position-sizing node
	NodeKindSizing NodeKind = "sizing"
)

// InputSlot describes one named input of a node.
type InputSlot struct {
	Name      string `json:"name"`
	Required  bool   `json:"required"`
	Connected bool   `json:"connected"`
}

// Node represents a vertex in the strategy graph
// PRINCIPLES:
// - KISS: Simple node representation
// - SRP: Only responsible for node data
type Node struct {
	ID         string                 `json:"id"`
	Kind       NodeKind               `json:"kind"`
	Label      string                 `json:"label"`
	Category   string                 `json:"category,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Inputs     []InputSlot            `json:"inputs,omitempty"`
}

// Validate ensures node integrity
// PRINCIPLES:
// - SRP: Single responsibility - validation only
// - KISS: Simple validation, <10 lines
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Kind == "" {
		return ErrInvalidNodeKind
	}
	return nil
}

// IsRiskControl reports whether the node contributes risk management,
// either by kind or by editor-assigned category.
func (n *Node) IsRiskControl() bool {
	return n.Kind == NodeKindRisk || n.Category == "risk" || n.Category == "risk-management"
}

// IsPositionSizing reports whether the node contributes position sizing.
func (n *Node) IsPositionSizing() bool {
	return n.Kind == NodeKindSizing || n.Category == "sizing" || n.Category == "position-sizing"
}

// RequiredUnbound returns the required input slots that are not connected.
func (n *Node) RequiredUnbound() []InputSlot {
	var unbound []InputSlot
	for _, slot := range n.Inputs {
		if slot.Required && !slot.Connected {
			unbound = append(unbound, slot)
		}
	}
	return unbound
}
