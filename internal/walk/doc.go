// Package walk enumerates the input tree into an immutable entry list.
//
// The scan is drained to completion before the pipeline creates any output
// path, so an output root nested inside the input root can never be
// observed by its own traversal.
package walk
