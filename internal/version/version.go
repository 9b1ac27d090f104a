// Package version contains information on the current version of the
// program. It is split from the main program for easy use by both the CLI
// and the HTTP server.
package version

// Current is the string representing the current version of lr1trace.
const Current = "0.1.0"
