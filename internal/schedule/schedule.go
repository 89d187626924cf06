package schedule

import (
	"errors"
	"fmt"

	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
	"github.com/vk/factorgrid/internal/rules"
)

// Sentinel errors for schedule generation.
var (
	// ErrUnbrokenCycle indicates a dependency loop with no breaker
	// interface on it.
	ErrUnbrokenCycle = errors.New("schedule: dependency cycle without a breaker interface")

	// ErrUnattachedInterface indicates a message was requested from a
	// dangling edge end.
	ErrUnattachedInterface = errors.New("schedule: message requested from an unattached edge")

	// ErrNoInternalEdge indicates a marginal target whose variable has no
	// edge inside the factor.
	ErrNoInternalEdge = errors.New("schedule: target variable has no internal edge")
)

// Fixed rule identifiers for entries that are not dispatched: the vague
// breaker initializer and the marginal combination steps.
const (
	RuleVague   = "vague"
	RuleProduct = "product"
	RuleJoint   = "joint"
)

// EntryKind classifies what a schedule entry computes.
type EntryKind int

const (
	// MessageEntry computes the message flowing out of one interface.
	MessageEntry EntryKind = iota
	// MarginalEntry combines the two opposing messages on an edge into a
	// variable belief.
	MarginalEntry
	// JointEntry combines all messages toward a node over a cluster's
	// edges into a joint belief.
	JointEntry
)

func (k EntryKind) String() string {
	switch k {
	case MessageEntry:
		return "message"
	case MarginalEntry:
		return "marginal"
	case JointEntry:
		return "joint"
	}
	return "invalid"
}

// Inbound is one dependency reference of a schedule entry: either an earlier
// entry of the same schedule, or a marginal supplied by another posterior
// factor, identified by its region.
type Inbound struct {
	// Entry is the producing entry, nil for cross-factor marginals.
	Entry *Entry

	// RegionID names the external region whose marginal is consumed.
	RegionID string
}

// Entry is one instruction of a schedule: a target, the rule selected for
// it, and its ordered inbound dependencies.
type Entry struct {
	Kind EntryKind

	// Interface is the target of a message entry.
	Interface *graph.Interface

	// Variable is the target of a marginal entry.
	Variable *graph.Variable

	// Cluster is the target of a joint entry.
	Cluster *region.Cluster

	// RuleID identifies the selected update rule, or one of the fixed
	// identifiers RuleVague, RuleProduct, RuleJoint.
	RuleID string

	// Rule is the dispatched rule for message entries, nil otherwise.
	Rule *rules.Rule

	// Family is the distribution family the entry produces.
	Family string

	// Init marks a breaker initializer seeded with a vague message.
	Init bool

	// Inbound lists dependencies in node-interface order.
	Inbound []Inbound

	// Index is the entry's position in its schedule.
	Index int
}

// TargetID renders the entry's target for diagnostics and artifact output.
func (e *Entry) TargetID() string {
	switch e.Kind {
	case MessageEntry:
		return e.Interface.ID()
	case MarginalEntry:
		return e.Variable.Name
	case JointEntry:
		return e.Cluster.ID()
	}
	return "invalid"
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s %s via %s", e.Kind, e.TargetID(), e.RuleID)
}

// Schedule is an ordered list of entries; every entry's dependencies appear
// at earlier indices.
type Schedule []*Entry

// Validate checks the dependency partial order. It exists for tests and for
// defensive re-validation after deserialization of an artifact.
func (s Schedule) Validate() error {
	for i, e := range s {
		if e.Index != i {
			return fmt.Errorf("schedule: entry %d carries index %d", i, e.Index)
		}
		for _, in := range e.Inbound {
			if in.Entry != nil && in.Entry.Index >= i {
				return fmt.Errorf("schedule: entry %d (%s) depends on later entry %d (%s)",
					i, e.TargetID(), in.Entry.Index, in.Entry.TargetID())
			}
		}
	}
	return nil
}
