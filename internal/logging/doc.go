// Package logging builds the slog loggers used across the tool.
//
// Two output formats are supported: a human-oriented console format where
// the component attribute becomes a message prefix, and plain JSON for
// machine consumption. Helper shims (String, Int, Error, ...) keep call
// sites terse and uniform.
package logging
