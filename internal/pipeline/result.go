package pipeline

import (
	"github.com/maxvaer/wwparse/internal/extract"
	"github.com/maxvaer/wwparse/internal/whatweb"
)

// Job is one log file to process. Index is its position in the sorted
// input list.
type Job struct {
	Index int
	Path  string
}

// Result holds the outcome of processing one log file. Exactly one of
// Record, Failure or Error is set.
type Result struct {
	Index   int
	Path    string
	Record  *extract.Record
	Failure *whatweb.Failure
	Error   error
}

// Status returns the status column of the row, if any.
func (r *Result) Status() string {
	switch {
	case r.Record != nil:
		return r.Record.Status
	case r.Failure != nil:
		return r.Failure.Status
	}
	return ""
}

// Target returns the target column of the row, if any.
func (r *Result) Target() string {
	switch {
	case r.Record != nil:
		return r.Record.Target
	case r.Failure != nil:
		return r.Failure.Target
	}
	return ""
}

// Process parses one log file and extracts its row.
func Process(job Job, fields []string) Result {
	res := Result{Index: job.Index, Path: job.Path}
	chain, failure, err := whatweb.ParseFile(job.Path)
	switch {
	case err != nil:
		res.Error = err
	case failure != nil:
		res.Failure = failure
	default:
		rec := extract.Extract(chain, fields)
		res.Record = &rec
	}
	return res
}
