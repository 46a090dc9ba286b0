package models

// Alignment is a vision alignment verdict for an item
type Alignment string

const (
	AlignmentFits    Alignment = "fits"
	AlignmentStrays  Alignment = "strays"
	AlignmentRejects Alignment = "rejects"
	AlignmentPending Alignment = "pending"
	AlignmentError   Alignment = "error"
)

// Action is a recommended triage action
type Action string

// PR actions
const (
	ActionMergeCandidate   Action = "merge_candidate"
	ActionReviewDuplicates Action = "review_duplicates"
	ActionNeedsRevision    Action = "needs_revision"
	ActionClose            Action = "close"
	ActionFlag             Action = "flag"
)

// Issue actions
const (
	ActionPrioritize Action = "prioritize"
	ActionNeedsInfo  Action = "needs_info"
	ActionWontfix    Action = "wontfix"
)

// SimilarPR is a near-duplicate candidate found via embedding similarity
type SimilarPR struct {
	Number int     `json:"number"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
}

// QualityBreakdown holds per-criterion PR quality sub-scores.
// DiffSize and SingleTopic are only meaningful at the full tier.
type QualityBreakdown struct {
	DiffSize       float64 `json:"diffSize"`
	HasDescription float64 `json:"hasDescription"`
	SingleTopic    float64 `json:"singleTopic"`
	FollowsFormat  float64 `json:"followsFormat"`
}

// IssueQualityBreakdown holds per-criterion issue quality sub-scores
type IssueQualityBreakdown struct {
	HasDescription  float64 `json:"hasDescription"`
	HasReproSteps   float64 `json:"hasReproSteps"`
	HasLabels       float64 `json:"hasLabels"`
	FollowsTemplate float64 `json:"followsTemplate"`
}

// TriageResult is the outcome of triaging a single PR
type TriageResult struct {
	PRNumber          int              `json:"prNumber"`
	IsDuplicate       bool             `json:"isDuplicate"`
	DuplicateOf       []SimilarPR      `json:"duplicateOf"`
	QualityScore      float64          `json:"qualityScore"`
	QualityBreakdown  QualityBreakdown `json:"qualityBreakdown"`
	VisionAlignment   Alignment        `json:"visionAlignment"`
	VisionReason      string           `json:"visionReason"`
	RecommendedAction Action           `json:"recommendedAction"`
	DraftComment      string           `json:"draftComment"`
}
