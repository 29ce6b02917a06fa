// Package bqm implements the binary quadratic model: a quadratic energy
// function over spin ({-1,+1}) or binary ({0,1}) variables.
//
// A model stores linear biases h, quadratic biases J over normalized
// variable pairs, and a constant offset c. The energy of a full assignment
// s is
//
//	E(s) = Σ_v h_v·s_v + Σ_{u,v} J_uv·s_u·s_v + c
//
// evaluated identically for both vartypes (the vartype only fixes which
// values an assignment may take).
//
// Models are plain in-memory containers: no locking, no I/O. Callers that
// mutate a model in place own it exclusively for the duration of the call.
//
// Errors (sentinel):
//
//	ErrEmptyVariable     if a variable label is the empty string.
//	ErrSelfInteraction   if a quadratic bias pairs a variable with itself.
//	ErrMissingVariable   if an energy evaluation lacks a variable's value.
//	ErrInvalidValue      if a sample value is outside the vartype's domain.
//	ErrLabelCollision    if a relabeling would merge two variables.
package bqm
