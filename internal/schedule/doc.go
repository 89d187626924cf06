// Package schedule turns the targets of one posterior factor into an ordered
// list of message and marginal computations.
//
// Generation is a depth-first dependency walk: computing the message out of
// an interface requires the messages arriving on every other interface of
// the same node, which recursively schedules their producers. Edges external
// to the factor contribute no schedule entry; their belief arrives as a
// marginal reference resolved by another posterior factor. Interfaces
// flagged as breakers terminate the walk
// with a vague initializer entry, which is what makes generation terminate
// on cyclic regions of the graph. A cycle with no breaker on it is reported
// as a configuration error rather than walked forever.
//
// Entries are appended in postorder, so every entry's dependencies sit at
// earlier indices. Entries are deduplicated per target: two downstream
// computations needing the same upstream message share one entry.
package schedule
