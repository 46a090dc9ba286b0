package vision

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Job is an asynchronous bulk alignment evaluation. Submit starts the job,
// Poll checks progress, and Results is valid only after Poll reports done.
// Verdicts are keyed by the item's PR or issue number.
type Job interface {
	Submit(ctx context.Context) (string, error)
	Poll(ctx context.Context) (bool, error)
	Results(ctx context.Context) (map[int]Verdict, error)
}

// State is the lifecycle phase of a polled job
type State string

const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed-out"
)

// Poller drives a Job to completion with a fixed polling interval, a bound on
// consecutive transient failures, and an overall wall-clock timeout. Now and
// Sleep are injectable for tests.
type Poller struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxFailures int

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller with the real clock
func NewPoller(interval, timeout time.Duration) *Poller {
	return &Poller{
		Interval:    interval,
		Timeout:     timeout,
		MaxFailures: 5,
		Now:         time.Now,
		Sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run submits the job and polls until it completes, fails, or times out. A
// poll error is transient until MaxFailures occur in a row.
func (p *Poller) Run(ctx context.Context, job Job) (map[int]Verdict, State, error) {
	id, err := job.Submit(ctx)
	if err != nil {
		return nil, StateFailed, fmt.Errorf("failed to submit job: %w", err)
	}
	log.Printf("[Vision] Submitted batch job %s", id)

	deadline := p.Now().Add(p.Timeout)
	failures := 0

	for {
		done, err := job.Poll(ctx)
		if err != nil {
			failures++
			if failures >= p.MaxFailures {
				return nil, StateFailed, fmt.Errorf("job %s failed after %d consecutive poll errors: %w", id, failures, err)
			}
			log.Printf("[Vision] Poll error for job %s (%d/%d): %v", id, failures, p.MaxFailures, err)
		} else {
			failures = 0
			if done {
				results, err := job.Results(ctx)
				if err != nil {
					return nil, StateFailed, fmt.Errorf("failed to collect results for job %s: %w", id, err)
				}
				return results, StateSucceeded, nil
			}
		}

		if !p.Now().Before(deadline) {
			return nil, StateTimedOut, fmt.Errorf("job %s timed out after %s", id, p.Timeout)
		}

		if err := p.Sleep(ctx, p.Interval); err != nil {
			return nil, StateFailed, err
		}
	}
}
