package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"
)

// PostComment adds a comment to an issue or pull request
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d/comments", owner, repo, number)
	if err := c.post(ctx, endpoint, map[string]string{"body": body}, nil); err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}

	return nil
}

// CreateIssue opens a new issue and returns its number
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (int, error) {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return 0, err
	}

	payload := map[string]any{
		"title": title,
		"body":  body,
	}
	if len(labels) > 0 {
		payload["labels"] = labels
	}

	var result struct {
		Number int `json:"number"`
	}
	endpoint := fmt.Sprintf("repos/%s/%s/issues", owner, repo)
	if err := c.post(ctx, endpoint, payload, &result); err != nil {
		return 0, fmt.Errorf("failed to create issue: %w", err)
	}

	return result.Number, nil
}

// EnsureLabel creates a label if it does not already exist
func (c *Client) EnsureLabel(ctx context.Context, owner, repo, name, color, description string) error {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return err
	}

	payload := map[string]string{
		"name":        name,
		"color":       color,
		"description": description,
	}

	endpoint := fmt.Sprintf("repos/%s/%s/labels", owner, repo)
	err := c.post(ctx, endpoint, payload, nil)
	if err == nil {
		return nil
	}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnprocessableEntity {
		// Already exists.
		return nil
	}
	return fmt.Errorf("failed to create label %s: %w", name, err)
}
