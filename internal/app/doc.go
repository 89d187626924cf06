// Package app wires the loaded model, the rule registry and the inference
// pipeline together into one runnable application instance.
package app
