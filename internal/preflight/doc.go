// Package preflight provides the readiness checks that run before any
// filesystem mutation: input root accessibility, output target absence,
// free space, and engine binary resolution.
//
// The run command aborts on any failed check so fatal configuration and
// path problems never leave a partial output tree; the check command
// renders the same results as a status table.
package preflight
