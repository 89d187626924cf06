package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific model loader.
type Loader interface {
	// Load reads a model declaration from the given paths and translates
	// it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the unified, format-agnostic representation of one declared
// probabilistic program: its random variables, factor instances and the
// requested posterior factorization.
type Model struct {
	Name      string
	Variables []*Variable
	Factors   []*Factor
	Breakers  []*Breaker
	Posterior *Posterior
}

// Variable declares one named random variable.
type Variable struct {
	Name string
}

// Factor is the format-agnostic representation of a `factor` or `clamp`
// block: one factor-node instance of a registered kind, connected to
// variables in interface order (index 0 is the output).
type Factor struct {
	Kind    string
	Name    string
	Connect []string

	// Value carries the pinned constant of a clamp, nil otherwise.
	Value *cty.Value
}

// Breaker flags one node interface as a feedback-loop entry point, seeded
// with a vague initial message of the given family.
type Breaker struct {
	Node   string
	Slot   int
	Family string
}

// Posterior describes the requested posterior factorization and the target
// flags handed to every posterior factor.
type Posterior struct {
	Groups          []*Group
	TargetVariables []string
	FreeEnergy      bool
	ExternalTargets bool
}

// Group names one posterior factor and lists the variables whose edges seed it.
type Group struct {
	ID        string
	Variables []string
}
