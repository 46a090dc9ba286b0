package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// GetFileContent fetches a repository file's decoded content. A missing file
// returns an empty string with a nil error.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return "", err
	}

	var result struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}

	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, path)
	if err := c.get(ctx, endpoint, &result); err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get contents of %s: %w", path, err)
	}

	if result.Encoding != "base64" {
		return result.Content, nil
	}

	// The contents API wraps base64 payloads with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(result.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode contents of %s: %w", path, err)
	}
	return string(decoded), nil
}
