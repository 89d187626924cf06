// Package config defines the format-agnostic model of a declared
// probabilistic program, along with the Loader interface for reading it from
// various sources.
//
// The config.Model is the single source of truth for the graph and
// factorization packages. Concrete implementations of Loader, such as for
// HCL, are provided in separate packages.
package config
