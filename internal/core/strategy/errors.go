// Package strategy defines domain-specific errors
package strategy

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Graph errors
	ErrNilGraph         = errors.New("graph cannot be nil")
	ErrInvalidGraphName = errors.New("invalid graph name")
	ErrGraphNotFound    = errors.New("graph not found")
	ErrCyclicGraph      = errors.New("cyclic dependency detected")

	// Node errors
	ErrNilNode         = errors.New("node cannot be nil")
	ErrInvalidNodeID   = errors.New("invalid node ID")
	ErrInvalidNodeKind = errors.New("invalid node kind")
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateNode   = errors.New("duplicate node ID")

	// Edge errors
	ErrNilEdge       = errors.New("edge cannot be nil")
	ErrInvalidSource = errors.New("invalid source node")
	ErrInvalidTarget = errors.New("invalid target node")
)
