// Package report keeps an optional on-disk history of runs in SQLite.
//
// Each completed invocation stores one row with its roots and action
// counts plus one row per failed file action. The history is informational
// only; a report error never fails a run that otherwise succeeded. The
// `runs` subcommand renders this data.
package report
