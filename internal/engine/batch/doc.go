// Package batch runs a function over a slice of items on a bounded pool of
// goroutines while preserving submission order in the results.
//
// Key features:
//   - Configurable concurrency (defaults to runtime.NumCPU())
//   - Progress tracking with callbacks for UI updates
//   - Context-aware cancellation support
//
// The pipeline uses it to analyze documents in parallel; each result lands
// at the index of its input so output order never depends on scheduling.
package batch
