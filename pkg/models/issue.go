package models

// Issue represents a GitHub issue with full detail data
type Issue struct {
	Number        int      `json:"number"`
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	User          string   `json:"user"`
	Labels        []string `json:"labels"`
	Milestone     string   `json:"milestone"`
	Assignees     []string `json:"assignees"`
	CommentCount  int      `json:"commentCount"`
	ReactionCount int      `json:"reactionCount"`
	CreatedAt     string   `json:"createdAt"`
}

// BatchIssue is a lightweight issue from the list endpoint
type BatchIssue struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	User      string   `json:"user"`
	Labels    []string `json:"labels"`
	CreatedAt string   `json:"createdAt"`
}

// EnrichedIssueData holds detail fields fetched per-issue after the initial listing
type EnrichedIssueData struct {
	CommentCount  int      `json:"commentCount"`
	ReactionCount int      `json:"reactionCount"`
	LinkedPRs     int      `json:"linkedPRs"`
	Milestone     string   `json:"milestone"`
	Assignees     []string `json:"assignees"`
}

// FullIssue combines list data with enrichment data into a complete issue
func (i *BatchIssue) FullIssue(e EnrichedIssueData) Issue {
	return Issue{
		Number:        i.Number,
		Title:         i.Title,
		Body:          i.Body,
		User:          i.User,
		Labels:        i.Labels,
		Milestone:     e.Milestone,
		Assignees:     e.Assignees,
		CommentCount:  e.CommentCount,
		ReactionCount: e.ReactionCount,
		CreatedAt:     i.CreatedAt,
	}
}
