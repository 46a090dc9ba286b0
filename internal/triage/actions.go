package triage

import "github.com/GriffinAtlas/clawtriage/pkg/models"

// DeriveAction maps a PR's triage signals to one recommended action. Rules
// are checked in fixed priority order, first match wins. Quality thresholds
// are inclusive on the better side: exactly 5 is review_duplicates territory,
// exactly 8 qualifies for merge_candidate, exactly 4 escapes needs_revision.
func DeriveAction(isDuplicate bool, qualityScore float64, alignment models.Alignment) models.Action {
	switch {
	case isDuplicate && qualityScore < 5:
		return models.ActionClose
	case isDuplicate:
		return models.ActionReviewDuplicates
	case alignment == models.AlignmentRejects:
		return models.ActionClose
	case alignment == models.AlignmentError || alignment == models.AlignmentPending:
		return models.ActionFlag
	case qualityScore >= 8 && alignment == models.AlignmentFits:
		return models.ActionMergeCandidate
	case qualityScore < 4:
		return models.ActionNeedsRevision
	default:
		return models.ActionMergeCandidate
	}
}

// DeriveIssueAction is the same decision table with issue-flavored terminal
// actions (wontfix / prioritize / needs_info).
func DeriveIssueAction(isDuplicate bool, qualityScore float64, alignment models.Alignment) models.Action {
	switch {
	case isDuplicate && qualityScore < 5:
		return models.ActionWontfix
	case isDuplicate:
		return models.ActionReviewDuplicates
	case alignment == models.AlignmentRejects:
		return models.ActionWontfix
	case alignment == models.AlignmentError || alignment == models.AlignmentPending:
		return models.ActionFlag
	case qualityScore >= 8 && alignment == models.AlignmentFits:
		return models.ActionPrioritize
	case qualityScore < 4:
		return models.ActionNeedsInfo
	default:
		return models.ActionPrioritize
	}
}
