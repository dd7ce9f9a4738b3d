package submission

import "time"

// Status is the submission lifecycle state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Submit control labels.
const (
	LabelSubmit     = "Submit"
	LabelProcessing = "Processing..."
)

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	Form         FormData
	Status       Status
	ErrorMessage string
	// Attempts counts dispatched submissions.
	Attempts int
	// AttemptID identifies the latest attempt; empty before the first one.
	AttemptID string
}

// SubmitDisabled reports whether the submit trigger must be disabled.
func (s Snapshot) SubmitDisabled() bool {
	return s.Status == StatusLoading
}

// SubmitLabel returns the label shown on the submit trigger.
func (s Snapshot) SubmitLabel() string {
	if s.Status == StatusLoading {
		return LabelProcessing
	}
	return LabelSubmit
}

// Transition describes one state change. Elapsed is measured from the moment
// the attempt entered loading and is zero on the loading edge itself.
type Transition struct {
	From     Status
	To       Status
	Snapshot Snapshot
	Elapsed  time.Duration
	// Err is the typed failure for transitions into StatusError.
	Err error
}

// Observer receives every transition after the controller state is updated.
// Observers run on the goroutine that performed the transition and must not
// call back into Start or Submit.
type Observer func(Transition)
