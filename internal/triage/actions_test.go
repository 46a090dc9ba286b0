package triage

import (
	"testing"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

func TestDeriveAction(t *testing.T) {
	tests := []struct {
		name      string
		duplicate bool
		quality   float64
		alignment models.Alignment
		want      models.Action
	}{
		{"low quality duplicate", true, 3.0, models.AlignmentFits, models.ActionClose},
		{"duplicate just under five", true, 4.9, models.AlignmentFits, models.ActionClose},
		{"duplicate at five", true, 5.0, models.AlignmentFits, models.ActionReviewDuplicates},
		{"high quality duplicate", true, 9.0, models.AlignmentFits, models.ActionReviewDuplicates},
		{"duplicate wins over rejects", true, 9.0, models.AlignmentRejects, models.ActionReviewDuplicates},
		{"vision rejects", false, 9.0, models.AlignmentRejects, models.ActionClose},
		{"vision error flags", false, 9.0, models.AlignmentError, models.ActionFlag},
		{"vision pending flags", false, 9.0, models.AlignmentPending, models.ActionFlag},
		{"high quality and fits", false, 8.0, models.AlignmentFits, models.ActionMergeCandidate},
		{"just under eight falls through", false, 7.9, models.AlignmentFits, models.ActionMergeCandidate},
		{"high quality but strays", false, 8.0, models.AlignmentStrays, models.ActionMergeCandidate},
		{"low quality", false, 3.9, models.AlignmentFits, models.ActionNeedsRevision},
		{"exactly four escapes revision", false, 4.0, models.AlignmentFits, models.ActionMergeCandidate},
		{"middling default", false, 6.0, models.AlignmentStrays, models.ActionMergeCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveAction(tt.duplicate, tt.quality, tt.alignment)
			if got != tt.want {
				t.Errorf("DeriveAction(%v, %v, %q) = %q, want %q", tt.duplicate, tt.quality, tt.alignment, got, tt.want)
			}
		})
	}
}

func TestDeriveIssueAction(t *testing.T) {
	tests := []struct {
		name      string
		duplicate bool
		quality   float64
		alignment models.Alignment
		want      models.Action
	}{
		{"low quality duplicate", true, 2.0, models.AlignmentFits, models.ActionWontfix},
		{"solid duplicate", true, 7.0, models.AlignmentFits, models.ActionReviewDuplicates},
		{"vision rejects", false, 9.0, models.AlignmentRejects, models.ActionWontfix},
		{"vision error flags", false, 6.0, models.AlignmentError, models.ActionFlag},
		{"high quality and fits", false, 8.5, models.AlignmentFits, models.ActionPrioritize},
		{"low quality", false, 2.0, models.AlignmentFits, models.ActionNeedsInfo},
		{"middling default", false, 6.0, models.AlignmentStrays, models.ActionPrioritize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveIssueAction(tt.duplicate, tt.quality, tt.alignment)
			if got != tt.want {
				t.Errorf("DeriveIssueAction(%v, %v, %q) = %q, want %q", tt.duplicate, tt.quality, tt.alignment, got, tt.want)
			}
		})
	}
}
