// Package prediction estimates future lot occupancy from historical
// observation windows and nearby event demand. When no history matches
// the target slot a calendar heuristic with injectable jitter can
// answer instead.
package prediction
