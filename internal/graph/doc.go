// Package graph implements the Forney-style factor graph substrate: variables,
// edges, interfaces and factor nodes, with constant-time lookups between them.
//
// An Edge is the unit of message flow. It connects at most two interfaces
// (endpoints "a" and "b"; "b" may be absent while the edge dangles) and is
// tagged with exactly one Variable. A Variable used by more than two factors
// must be routed through an explicit equality node, mirroring how Forney
// graphs fan a variable out; AddFactor reports saturation instead of silently
// inserting one.
//
// The package builds graphs two ways: programmatically via New/AddVariable/
// AddFactor, or from a loaded config.Model via Build.
package graph
