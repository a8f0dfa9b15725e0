// internal/nodeid/doc.go

/*
Package nodeid centralizes the rules for node and edge identifiers.

An identifier is any non-empty string of printable, non-whitespace characters
up to MaxLength bytes, e.g. `data-1`, `e1-2` or `1718031234567`. Callers that
do not care about the exact value let the store generate one with New, which
returns a random UUID.
*/
package nodeid
