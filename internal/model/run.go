package model

import "time"

// Outcome is the final state of one symbol's pipeline run.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeWarning Outcome = "WARNING"
	OutcomeFailure Outcome = "FAILURE"
)

// SymbolResult records how one symbol's processing ended.
type SymbolResult struct {
	Symbol  string
	Outcome Outcome
	Reason  string
}

// RunSummary aggregates one whole pipeline invocation.
type RunSummary struct {
	Mode      string
	StartedAt time.Time
	Elapsed   time.Duration
	Results   []SymbolResult
}

// Counts returns the number of successes, warnings, and failures.
func (r *RunSummary) Counts() (success, warning, failure int) {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeSuccess:
			success++
		case OutcomeWarning:
			warning++
		default:
			failure++
		}
	}
	return
}

// Failed reports whether any symbol ended in failure.
func (r *RunSummary) Failed() bool {
	_, _, failures := r.Counts()
	return failures > 0
}

// ExitCode is the process exit code contract for schedulers: 0 only when
// every symbol succeeded or was downgraded to a warning.
func (r *RunSummary) ExitCode() int {
	if r.Failed() {
		return 1
	}
	return 0
}
