package vision

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedJob struct {
	submitErr error
	polls     []pollStep
	pollIdx   int
	results   map[int]Verdict
	resultErr error
}

type pollStep struct {
	done bool
	err  error
}

func (j *scriptedJob) Submit(ctx context.Context) (string, error) {
	if j.submitErr != nil {
		return "", j.submitErr
	}
	return "job-1", nil
}

func (j *scriptedJob) Poll(ctx context.Context) (bool, error) {
	if j.pollIdx >= len(j.polls) {
		return false, nil
	}
	step := j.polls[j.pollIdx]
	j.pollIdx++
	return step.done, step.err
}

func (j *scriptedJob) Results(ctx context.Context) (map[int]Verdict, error) {
	return j.results, j.resultErr
}

// testPoller uses a fake clock that advances by the interval on every sleep.
func testPoller(timeout time.Duration) *Poller {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewPoller(30*time.Second, timeout)
	p.Now = func() time.Time { return now }
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		now = now.Add(d)
		return nil
	}
	return p
}

func TestPollerSucceeds(t *testing.T) {
	job := &scriptedJob{
		polls:   []pollStep{{false, nil}, {false, nil}, {true, nil}},
		results: map[int]Verdict{7: {Alignment: "fits", Reason: "ok"}},
	}

	results, state, err := testPoller(time.Hour).Run(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateSucceeded {
		t.Errorf("state = %q, want %q", state, StateSucceeded)
	}
	if len(results) != 1 || results[7].Reason != "ok" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestPollerSubmitFailure(t *testing.T) {
	job := &scriptedJob{submitErr: errors.New("upload rejected")}

	_, state, err := testPoller(time.Hour).Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected error")
	}
	if state != StateFailed {
		t.Errorf("state = %q, want %q", state, StateFailed)
	}
}

func TestPollerToleratesTransientErrors(t *testing.T) {
	job := &scriptedJob{
		polls: []pollStep{
			{false, errors.New("502")},
			{false, errors.New("502")},
			{false, nil}, // resets the failure counter
			{false, errors.New("502")},
			{true, nil},
		},
		results: map[int]Verdict{1: {Alignment: "fits"}},
	}

	_, state, err := testPoller(time.Hour).Run(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateSucceeded {
		t.Errorf("state = %q, want %q", state, StateSucceeded)
	}
}

func TestPollerFailsAfterConsecutiveErrors(t *testing.T) {
	steps := make([]pollStep, 10)
	for i := range steps {
		steps[i] = pollStep{false, errors.New("502")}
	}
	job := &scriptedJob{polls: steps}

	_, state, err := testPoller(time.Hour).Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected error")
	}
	if state != StateFailed {
		t.Errorf("state = %q, want %q", state, StateFailed)
	}
	if job.pollIdx != 5 {
		t.Errorf("poll count = %d, want 5", job.pollIdx)
	}
}

func TestPollerTimesOut(t *testing.T) {
	job := &scriptedJob{} // never done

	_, state, err := testPoller(2 * time.Minute).Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected error")
	}
	if state != StateTimedOut {
		t.Errorf("state = %q, want %q", state, StateTimedOut)
	}
}

func TestPollerResultCollectionFailure(t *testing.T) {
	job := &scriptedJob{
		polls:     []pollStep{{true, nil}},
		resultErr: errors.New("download failed"),
	}

	_, state, err := testPoller(time.Hour).Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected error")
	}
	if state != StateFailed {
		t.Errorf("state = %q, want %q", state, StateFailed)
	}
}

func TestInlineJob(t *testing.T) {
	judge := &fakeJudge{
		verdicts: map[int]Verdict{
			1: {Alignment: "fits", Reason: "in scope"},
			2: {Alignment: "rejects", Reason: "out of scope"},
		},
		failFor: map[int]bool{3: true},
	}
	doc := &Doc{Content: "vision", Source: "VISION.md"}
	items := []Summary{{Number: 1}, {Number: 2}, {Number: 3}}

	results, state, err := testPoller(time.Hour).Run(context.Background(), NewInlineJob(judge, doc, items))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateSucceeded {
		t.Errorf("state = %q, want %q", state, StateSucceeded)
	}
	if results[1].Alignment != "fits" || results[2].Alignment != "rejects" {
		t.Errorf("unexpected verdicts: %+v", results)
	}
	if results[3].Alignment != "error" {
		t.Errorf("failed item alignment = %q, want error", results[3].Alignment)
	}
}

type fakeJudge struct {
	verdicts map[int]Verdict
	failFor  map[int]bool
}

func (f *fakeJudge) Judge(ctx context.Context, doc *Doc, item Summary) (Verdict, error) {
	if f.failFor[item.Number] {
		return Verdict{}, errors.New("model unavailable")
	}
	return f.verdicts[item.Number], nil
}

func (f *fakeJudge) Close() error { return nil }
