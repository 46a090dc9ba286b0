package models

// QualityTier indicates how much data was available when scoring an item
type QualityTier string

const (
	TierFull    QualityTier = "full"
	TierPartial QualityTier = "partial"
)

// DuplicateCluster is a group of items judged near-duplicates of each other
type DuplicateCluster struct {
	Canonical     int     `json:"canonical"`
	Members       []int   `json:"members"`
	AvgSimilarity float64 `json:"avgSimilarity"`
}

// BatchTriageEntry is one row in a PR batch triage report
type BatchTriageEntry struct {
	PRNumber          int               `json:"prNumber"`
	Title             string            `json:"title"`
	User              string            `json:"user"`
	QualityScore      float64           `json:"qualityScore"`
	QualityTier       QualityTier       `json:"qualityTier"`
	VisionAlignment   Alignment         `json:"visionAlignment"`
	VisionReason      string            `json:"visionReason"`
	DuplicateCluster  *int              `json:"duplicateCluster"`
	RecommendedAction Action            `json:"recommendedAction"`
	QualityBreakdown  *QualityBreakdown `json:"qualityBreakdown,omitempty"`
}

// BatchIssueTriageEntry is one row in an issue batch triage report
type BatchIssueTriageEntry struct {
	IssueNumber       int                    `json:"issueNumber"`
	Title             string                 `json:"title"`
	User              string                 `json:"user"`
	Labels            []string               `json:"labels"`
	QualityScore      float64                `json:"qualityScore"`
	QualityTier       QualityTier            `json:"qualityTier"`
	VisionAlignment   Alignment              `json:"visionAlignment"`
	VisionReason      string                 `json:"visionReason"`
	DuplicateCluster  *int                   `json:"duplicateCluster"`
	RecommendedAction Action                 `json:"recommendedAction"`
	QualityBreakdown  *IssueQualityBreakdown `json:"qualityBreakdown,omitempty"`
}

// BatchStats aggregates a PR batch run
type BatchStats struct {
	TotalPRs          int     `json:"totalPRs"`
	DuplicateClusters int     `json:"duplicateClusters"`
	DuplicatePRs      int     `json:"duplicatePRs"`
	AvgQuality        float64 `json:"avgQuality"`
	VisionFits        int     `json:"visionFits"`
	VisionStrays      int     `json:"visionStrays"`
	VisionRejects     int     `json:"visionRejects"`
	VisionPending     int     `json:"visionPending"`
	VisionErrors      int     `json:"visionErrors"`
	MergeCandidate    int     `json:"mergeCandidate"`
	NeedsRevision     int     `json:"needsRevision"`
	Flagged           int     `json:"flagged"`
}

// IssueBatchStats aggregates an issue batch run
type IssueBatchStats struct {
	TotalIssues       int     `json:"totalIssues"`
	DuplicateClusters int     `json:"duplicateClusters"`
	DuplicateIssues   int     `json:"duplicateIssues"`
	AvgQuality        float64 `json:"avgQuality"`
	VisionFits        int     `json:"visionFits"`
	VisionStrays      int     `json:"visionStrays"`
	VisionRejects     int     `json:"visionRejects"`
	VisionPending     int     `json:"visionPending"`
	VisionErrors      int     `json:"visionErrors"`
	Prioritize        int     `json:"prioritize"`
	NeedsInfo         int     `json:"needsInfo"`
	Flagged           int     `json:"flagged"`
}

// BatchResult is the full outcome of a PR batch run
type BatchResult struct {
	RunID         string             `json:"runId"`
	Repo          string             `json:"repo"`
	TotalPRs      int                `json:"totalPRs"`
	Timestamp     string             `json:"timestamp"`
	Clusters      []DuplicateCluster `json:"clusters"`
	Entries       []BatchTriageEntry `json:"entries"`
	Stats         BatchStats         `json:"stats"`
	VisionBatchID string             `json:"visionBatchId,omitempty"`
}

// IssueBatchResult is the full outcome of an issue batch run
type IssueBatchResult struct {
	RunID         string                  `json:"runId"`
	Repo          string                  `json:"repo"`
	TotalIssues   int                     `json:"totalIssues"`
	Timestamp     string                  `json:"timestamp"`
	Clusters      []DuplicateCluster      `json:"clusters"`
	Entries       []BatchIssueTriageEntry `json:"entries"`
	Stats         IssueBatchStats         `json:"stats"`
	VisionBatchID string                  `json:"visionBatchId,omitempty"`
}
