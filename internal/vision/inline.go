package vision

import (
	"context"
	"fmt"
	"log"
)

// InlineJob adapts a synchronous Judge to the Job interface by evaluating
// every item during Submit. Used for providers without a batch API.
type InlineJob struct {
	judge Judge
	doc   *Doc
	items []Summary

	results map[int]Verdict
}

// NewInlineJob creates a job that judges items one at a time
func NewInlineJob(judge Judge, doc *Doc, items []Summary) *InlineJob {
	return &InlineJob{judge: judge, doc: doc, items: items}
}

// Submit evaluates all items sequentially. Per-item failures become error
// verdicts so the run survives individual flakes.
func (j *InlineJob) Submit(ctx context.Context) (string, error) {
	j.results = make(map[int]Verdict, len(j.items))
	for i, item := range j.items {
		v, err := j.judge.Judge(ctx, j.doc, item)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.Printf("[Vision] Failed to judge item #%d: %v", item.Number, err)
			v = ErrorVerdict(fmt.Sprintf("Judgment failed: %v", err))
		}
		j.results[item.Number] = v
		if (i+1)%25 == 0 {
			log.Printf("[Vision] Judged %d/%d items", i+1, len(j.items))
		}
	}
	return fmt.Sprintf("inline-%d", len(j.items)), nil
}

// Poll always reports done; all work happens in Submit
func (j *InlineJob) Poll(ctx context.Context) (bool, error) {
	return true, nil
}

// Results returns the verdicts collected during Submit
func (j *InlineJob) Results(ctx context.Context) (map[int]Verdict, error) {
	if j.results == nil {
		return nil, fmt.Errorf("job has not been submitted")
	}
	return j.results, nil
}
