// Package cli turns command-line arguments into an app.Config. It owns flag
// parsing, usage output and the ExitError type that maps argument problems
// to process exit codes.
package cli
