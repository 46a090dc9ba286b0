package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

type apiLabel struct {
	Name string `json:"name"`
}

type apiMilestone struct {
	Title string `json:"title"`
}

type apiReactions struct {
	TotalCount int `json:"total_count"`
}

type apiIssue struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	User        apiUser         `json:"user"`
	Labels      []apiLabel      `json:"labels"`
	Milestone   *apiMilestone   `json:"milestone"`
	Assignees   []apiUser       `json:"assignees"`
	Comments    int             `json:"comments"`
	Reactions   apiReactions    `json:"reactions"`
	CreatedAt   string          `json:"created_at"`
	PullRequest json.RawMessage `json:"pull_request"`
}

func (i *apiIssue) labelNames() []string {
	names := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		names[j] = l.Name
	}
	return names
}

func (i *apiIssue) toBatchIssue() models.BatchIssue {
	return models.BatchIssue{
		Number:    i.Number,
		Title:     i.Title,
		Body:      i.Body,
		User:      i.User.Login,
		Labels:    i.labelNames(),
		CreatedAt: i.CreatedAt,
	}
}

// ListOpenIssues fetches all open issues using pagination. The issues
// endpoint also returns pull requests; those carry a pull_request key and
// are skipped.
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string) ([]models.BatchIssue, error) {
	var all []models.BatchIssue
	perPage := 100
	page := 1

	for {
		if err := c.WaitIfRateLimited(ctx); err != nil {
			return nil, err
		}

		params := url.Values{}
		params.Set("state", "open")
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))

		endpoint := fmt.Sprintf("repos/%s/%s/issues?%s", owner, repo, params.Encode())

		var issues []apiIssue
		if err := c.get(ctx, endpoint, &issues); err != nil {
			return nil, fmt.Errorf("failed to list open issues: %w", err)
		}

		for i := range issues {
			if len(issues[i].PullRequest) > 0 {
				continue
			}
			all = append(all, issues[i].toBatchIssue())
		}

		if len(issues) < perPage {
			break
		}
		page++
	}

	return all, nil
}

// GetIssueDetails fetches engagement detail for a single issue
func (c *Client) GetIssueDetails(ctx context.Context, owner, repo string, number int) (models.EnrichedIssueData, error) {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return models.EnrichedIssueData{}, err
	}

	var issue apiIssue
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", owner, repo, number)
	if err := c.get(ctx, endpoint, &issue); err != nil {
		return models.EnrichedIssueData{}, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}

	data := models.EnrichedIssueData{
		CommentCount:  issue.Comments,
		ReactionCount: issue.Reactions.TotalCount,
	}
	if issue.Milestone != nil {
		data.Milestone = issue.Milestone.Title
	}
	for _, a := range issue.Assignees {
		data.Assignees = append(data.Assignees, a.Login)
	}

	linked, err := c.countLinkedPRs(ctx, owner, repo, number)
	if err != nil {
		// Linked-PR count is advisory; keep the rest of the detail.
		log.Printf("[GitHub] Failed to count linked PRs for issue #%d: %v", number, err)
	} else {
		data.LinkedPRs = linked
	}

	return data, nil
}

// countLinkedPRs counts open PRs whose timeline cross-references this issue.
// The timeline API is the only REST surface that exposes linkage.
func (c *Client) countLinkedPRs(ctx context.Context, owner, repo string, number int) (int, error) {
	params := url.Values{}
	params.Set("per_page", "100")

	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/timeline?%s", owner, repo, number, params.Encode())

	var events []struct {
		Event  string `json:"event"`
		Source *struct {
			Issue *struct {
				PullRequest json.RawMessage `json:"pull_request"`
			} `json:"issue"`
		} `json:"source"`
	}
	if err := c.get(ctx, endpoint, &events); err != nil {
		return 0, err
	}

	count := 0
	for _, ev := range events {
		if ev.Event != "cross-referenced" || ev.Source == nil || ev.Source.Issue == nil {
			continue
		}
		if len(ev.Source.Issue.PullRequest) > 0 {
			count++
		}
	}
	return count, nil
}
