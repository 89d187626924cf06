// Package testutil provides shared helpers for package tests: log-capturing
// contexts, registry population and HCL-backed graph assembly.
package testutil
