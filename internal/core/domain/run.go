package domain

import "time"

// ParentResult records the outcome of extracting one resource type for
// one parent. Failures are carried as values, never as panics unwinding
// past the parent boundary, so one bad parent cannot abort the run.
type ParentResult struct {
	// Resource is the resource type that was extracted.
	Resource ResourceType

	// ParentID identifies the parent.
	ParentID string

	// Watermark is the new watermark committed for the parent.
	// Empty when no record was observed (checkpoint untouched).
	Watermark string

	// Records is the number of records emitted for this parent.
	Records int

	// Windows is the number of fetch windows issued.
	Windows int

	// Err is the failure, if any. When set, the parent's checkpoint was
	// left at its previous value.
	Err error
}

// Failed reports whether the parent's extraction failed.
func (r ParentResult) Failed() bool {
	return r.Err != nil
}

// RunReport summarises one sync run for one resource type.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// Resource is the resource type this report covers.
	Resource ResourceType

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Results holds one entry per processed parent, in processing order.
	Results []ParentResult
}

// Records returns the total number of records emitted across parents.
func (r *RunReport) Records() int {
	total := 0
	for _, res := range r.Results {
		total += res.Records
	}
	return total
}

// Failures returns the results for parents that failed.
func (r *RunReport) Failures() []ParentResult {
	var failed []ParentResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}
