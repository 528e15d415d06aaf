package pipeline

import (
	"time"

	"github.com/MawKKe/copy-tree-map/internal/rules"
)

// JobResult is the outcome of one file action. Path is the source path
// relative to the input root.
type JobResult struct {
	Path    string
	Action  rules.ActionKind
	Success bool
	Detail  string
}

// Summary aggregates a whole run. Copied and Transcoded count successful
// actions; every copy or transcode that did not succeed lands in Failed
// and in Failures. Copied + Transcoded + Dropped + Failed equals the
// number of files the walker discovered.
type Summary struct {
	Copied     int
	Transcoded int
	Dropped    int
	Failed     int
	Failures   []JobResult
	Duration   time.Duration
}

// add folds one result into the summary. It is called only by the single
// aggregating goroutine, never concurrently.
func (s *Summary) add(res JobResult) {
	if !res.Success {
		s.Failed++
		s.Failures = append(s.Failures, res)
		return
	}
	switch res.Action {
	case rules.ActionCopy:
		s.Copied++
	case rules.ActionTranscode:
		s.Transcoded++
	case rules.ActionDrop:
		s.Dropped++
	}
}

// Total returns the number of file entries accounted for.
func (s Summary) Total() int {
	return s.Copied + s.Transcoded + s.Dropped + s.Failed
}

// OK reports whether the run completed without failed jobs.
func (s Summary) OK() bool {
	return s.Failed == 0
}
