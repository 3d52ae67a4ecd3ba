package enrichment

import (
	"time"
)

// State tracks a unit of work through its lifecycle:
// Pending -> Dispatched -> Succeeded/Failed -> Collected.
type State string

const (
	StatePending    State = "pending"
	StateDispatched State = "dispatched"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Outcome is the collected result of one unit of work. Err is set only for
// failed units and carries the fetch failure for that issuer. Collected is
// set once the run's join barrier has passed and the outcome is final.
type Outcome struct {
	IssuerID  int64
	State     State
	Collected bool
	Err       error
	Duration  time.Duration
}

// Failed reports whether the unit ended in the failed state.
func (o Outcome) Failed() bool {
	return o.State == StateFailed
}

// Report is the synchronous result of one enrichment run. Outcomes are in
// the same order as the input records; the run never reorders the collection.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

// Succeeded returns the outcomes of fully enriched records.
func (r *Report) Succeeded() []Outcome {
	return r.filter(StateSucceeded)
}

// Failed returns the outcomes of records whose fetch did not succeed.
func (r *Report) Failed() []Outcome {
	return r.filter(StateFailed)
}

func (r *Report) filter(state State) []Outcome {
	var result []Outcome
	for _, o := range r.Outcomes {
		if o.State == state {
			result = append(result, o)
		}
	}
	return result
}

// Duration is the wall-clock time of the whole run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
