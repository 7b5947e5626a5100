// Package daemon drives the create-then-list cycle.
//
// Each iteration acquires a token and creates an item, waits, acquires a
// token and lists all items, then waits again. Iterations run strictly one
// after another. A failed token acquisition or API call is written to the
// operator output and logged; the loop then moves on to the next step.
// Cancelling the context ends the run at the next step boundary or wait.
package daemon
