// Package schema declares the gohcl-tagged structs that mirror the block
// layout of a factorgrid model file. The hcl package decodes files into these
// structs and translates them into the format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// Model is the optional `model "name" {}` header block.
type Model struct {
	Name string `hcl:"name,label"`
}

// Variable declares one random variable: `variable "x" {}`.
type Variable struct {
	Name string `hcl:"name,label"`
}

// Factor instantiates a factor node of a registered kind:
//
//	factor "gaussian" "prior_x" {
//	  connect = ["x", "m", "v"]
//	}
//
// connect lists variables in interface order; index 0 is the output.
type Factor struct {
	Kind    string   `hcl:"kind,label"`
	Name    string   `hcl:"instance_name,label"`
	Connect []string `hcl:"connect"`
}

// Clamp pins a variable to a constant value:
//
//	clamp "obs_y" {
//	  variable = "y"
//	  value    = 4.2
//	}
type Clamp struct {
	Name     string         `hcl:"instance_name,label"`
	Variable string         `hcl:"variable"`
	Value    hcl.Expression `hcl:"value"`
}

// Breaker flags a node interface as a feedback-loop entry point.
type Breaker struct {
	Node   string `hcl:"node"`
	Slot   int    `hcl:"slot"`
	Family string `hcl:"family"`
}

// Group names one posterior factor inside a posterior block.
type Group struct {
	ID        string   `hcl:"id,label"`
	Variables []string `hcl:"variables"`
}

// Posterior describes the requested posterior factorization:
//
//	posterior {
//	  free_energy      = true
//	  external_targets = true
//	  target_variables = ["x"]
//	  group "qx" { variables = ["x"] }
//	  group "qw" { variables = ["w"] }
//	}
type Posterior struct {
	TargetVariables []string `hcl:"target_variables,optional"`
	FreeEnergy      bool     `hcl:"free_energy,optional"`
	ExternalTargets bool     `hcl:"external_targets,optional"`
	Groups          []*Group `hcl:"group,block"`
}

// FileRoot decodes all possible top-level blocks from any model file.
type FileRoot struct {
	Models     []*Model     `hcl:"model,block"`
	Variables  []*Variable  `hcl:"variable,block"`
	Factors    []*Factor    `hcl:"factor,block"`
	Clamps     []*Clamp     `hcl:"clamp,block"`
	Breakers   []*Breaker   `hcl:"breaker,block"`
	Posteriors []*Posterior `hcl:"posterior,block"`
	Remain     hcl.Body     `hcl:",remain"`
}
