// Package metrics defines interfaces and record types for observing
// the parking service. Sinks like PromSink and InfluxSink record
// recommendation servings, prediction outcomes, occupancy updates and
// patrol routes and can be combined with NewMultiSink.
package metrics
