// Package cli turns command-line arguments into an app.Config. It validates
// flags and reports usage mistakes as ExitError values carrying the process
// exit code.
package cli
