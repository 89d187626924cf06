package graph

import "errors"

// Sentinel errors for graph construction and lookup.
var (
	// ErrDuplicateVariable indicates a variable name was declared twice.
	ErrDuplicateVariable = errors.New("graph: variable already declared")

	// ErrDuplicateNode indicates a factor-node name was declared twice.
	ErrDuplicateNode = errors.New("graph: factor node already declared")

	// ErrUnknownVariable indicates a reference to an undeclared variable.
	ErrUnknownVariable = errors.New("graph: unknown variable")

	// ErrUnknownNode indicates a reference to an undeclared factor node.
	ErrUnknownNode = errors.New("graph: unknown factor node")

	// ErrArityMismatch indicates a factor was connected to a number of
	// variables different from its kind's arity.
	ErrArityMismatch = errors.New("graph: arity mismatch")

	// ErrVariableSaturated indicates a variable already joins two factors
	// and needs an explicit equality node to fan out further.
	ErrVariableSaturated = errors.New("graph: variable already fully connected, route it through an equality node")

	// ErrForeignEdge indicates an edge that does not belong to the graph
	// being operated on.
	ErrForeignEdge = errors.New("graph: edge does not belong to this graph")

	// ErrBadInterface indicates an interface index outside a node's arity.
	ErrBadInterface = errors.New("graph: interface index out of range")

	// ErrMalformedGraph indicates a broken structural invariant, such as an
	// edge without a variable or an interface without a node.
	ErrMalformedGraph = errors.New("graph: malformed graph")
)
