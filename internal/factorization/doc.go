// Package factorization partitions a factor graph's edges into posterior
// factors, selects each factor's marginal targets, and owns the cross-factor
// lookup tables and free-energy counting numbers.
//
// A Factorization is built from a whole graph (one factor covering every
// edge), from explicit variable groups (one factor per group), or
// incrementally via AddFactor. Each factor's internal edge set is the
// closure of its seed variables' edges through deterministic nodes, and the
// edge sets of all factors must partition the graph's edges; a double claim
// fails fast.
//
// SetTargets runs the three additive target-selection passes described in
// the package's design notes (user-requested variables, external-factor
// summaries, free-energy counting) and Prepare generates every factor's
// schedule plus, when free energy was requested, the factorization-wide
// energy and entropy counting tables.
package factorization
