package main

import "time"

// FileStatus represents the outcome of one input file in a pass
type FileStatus string

const (
	StatusDone    FileStatus = "done"
	StatusSkipped FileStatus = "skipped"
	StatusFailed  FileStatus = "failed"
)

// FileResult tracks the outcome of processing each input file
type FileResult struct {
	Path      string
	Status    FileStatus
	Sequences int
	Error     error
}

// RunSummary is returned by a completed pass
type RunSummary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Results  []FileResult
}

// Count returns the number of results with the given status
func (s *RunSummary) Count(status FileStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}
