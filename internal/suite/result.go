package suite

import "time"

// Status classifies the outcome of one case.
type Status string

const (
	// StatusPass means the observed digest matched the pinned digest.
	StatusPass Status = "pass"
	// StatusFail means the command ran but its output digest differed.
	StatusFail Status = "fail"
	// StatusError means the command could not be run to completion
	// (missing input, non-zero exit, timeout). Counts as one failure
	// unit, same as a mismatch.
	StatusError Status = "error"
)

// Result is the outcome of running a single case. Results are plain data;
// the caller folds them into an aggregate count after the run.
type Result struct {
	Case     Case          `json:"case"`
	Status   Status        `json:"status"`
	Observed string        `json:"observed,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether this result contributes one failure unit.
func (r Result) Failed() bool { return r.Status != StatusPass }

// Report is the full outcome of a suite run.
type Report struct {
	Command    string    `json:"command"`
	Hash       string    `json:"hash"`
	Results    []Result  `json:"results"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// FailureCount returns the number of failing cases. The harness exit code
// is this count: zero if and only if every observed digest matched.
func (rep *Report) FailureCount() int {
	n := 0
	for _, r := range rep.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// PassCount returns the number of passing cases.
func (rep *Report) PassCount() int {
	return len(rep.Results) - rep.FailureCount()
}
