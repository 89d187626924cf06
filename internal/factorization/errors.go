package factorization

import "errors"

// Sentinel errors for factorization construction and lookups.
var (
	// ErrDuplicateFactor indicates a posterior-factor ID was used twice.
	ErrDuplicateFactor = errors.New("factorization: posterior factor already declared")

	// ErrIDCount indicates an ids list whose length differs from the
	// number of variable groups.
	ErrIDCount = errors.New("factorization: ids list length does not match group count")

	// ErrEdgeClaimed indicates an edge claimed by two posterior factors,
	// violating the partition invariant.
	ErrEdgeClaimed = errors.New("factorization: edge claimed by two posterior factors")

	// ErrForeignEdge indicates an edge that does not belong to the
	// factorization's graph.
	ErrForeignEdge = errors.New("factorization: edge does not belong to the active graph")

	// ErrForeignVariable indicates a variable that does not belong to the
	// factorization's graph.
	ErrForeignVariable = errors.New("factorization: variable does not belong to the active graph")

	// ErrNoCurrent indicates use of the incremental API with no current
	// factorization set.
	ErrNoCurrent = errors.New("factorization: no current factorization set")
)
