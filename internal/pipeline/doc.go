// Package pipeline replicates a directory tree from an input root to a
// freshly created output root, applying the per-file action chosen by the
// rule matcher.
//
// The run has strict phases: the complete input tree is scanned and every
// file classified before the output root is created, so fatal pre-flight
// failures leave no side effects and an output root nested inside the
// input can never be observed by its own traversal. Directory creation and
// plain copies then execute synchronously in pre-order, while transcode
// jobs run on a bounded worker pool. A single aggregating goroutine owns
// the Summary; workers communicate results exclusively over a channel.
package pipeline
