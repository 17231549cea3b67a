// Package condition evaluates the visibility expressions that gate rooms
// and sidebar entries.
//
// Expressions run against a snapshot of the process environment, with a
// synthesized "user" variable for the common per-user dashboard case.
// Evaluation is deliberately forgiving: a broken expression hides its
// element and logs a warning instead of failing the generation run.
package condition
