// Package rules holds the node-kind and update-rule registries for a single
// engine instance, and the dispatch logic that selects which registered update
// rule computes a given message.
//
// The engine itself defines no node kinds and no rules. Both are contributed
// by the compiled-in modules (see the top-level modules/ directory), each of
// which implements the Module interface. Dispatch happens at schedule
// construction time: given a node kind, a requested outbound family and the
// tuple of inbound slot types, the registry returns the single most specific
// matching rule, or an error describing why no unambiguous choice exists.
package rules
