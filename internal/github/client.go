// Package github wraps the GitHub REST API for PR and issue triage, with
// rate-limit tracking layered over every request.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// maxRateLimitWait bounds how long we will sleep for a primary rate-limit
// window (the window is at most an hour).
const maxRateLimitWait = 3700 * time.Second

// Client wraps GitHub API operations
type Client struct {
	rest  *api.RESTClient
	rate  rateTracker
	sleep func(ctx context.Context, d time.Duration) error
}

type rateTracker struct {
	remaining int
	reset     time.Time
	seen      bool
}

// NewClient creates a new GitHub client using ambient gh credentials
func NewClient() (*Client, error) {
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &Client{
		rest:  rest,
		sleep: sleepCtx,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close releases resources
func (c *Client) Close() error {
	return nil
}

// ParseRepo splits "owner/repo" into owner and repo
func ParseRepo(fullRepo string) (string, string, error) {
	parts := strings.Split(fullRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", fullRepo)
	}
	return parts[0], parts[1], nil
}

// WaitIfRateLimited sleeps until the primary rate-limit window resets when
// the remaining budget is nearly exhausted.
func (c *Client) WaitIfRateLimited(ctx context.Context) error {
	if !c.rate.seen || c.rate.remaining > 10 {
		return nil
	}

	wait := time.Until(c.rate.reset) + 5*time.Second
	if wait <= 0 {
		return nil
	}
	if wait > maxRateLimitWait {
		wait = maxRateLimitWait
	}

	log.Printf("[GitHub] Rate limit nearly exhausted (%d remaining), waiting %s", c.rate.remaining, wait.Round(time.Second))
	return c.sleep(ctx, wait)
}

func (c *Client) trackRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	reset := resp.Header.Get("X-RateLimit-Reset")
	if remaining == "" || reset == "" {
		return
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return
	}

	c.rate.remaining = rem
	c.rate.reset = time.Unix(resetUnix, 0)
	c.rate.seen = true
}

// do issues a request, tracks rate-limit headers, and retries once after a
// secondary rate limit. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		resp, err := c.rest.RequestWithContext(ctx, method, path, reader)
		if err != nil {
			if attempt == 0 {
				if wait, ok := secondaryRateLimitWait(err); ok {
					log.Printf("[GitHub] Secondary rate limit hit, retrying in %s", wait)
					if serr := c.sleep(ctx, wait); serr != nil {
						return serr
					}
					continue
				}
			}
			return err
		}

		c.trackRateLimit(resp)

		if out == nil {
			resp.Body.Close()
			return nil
		}

		decodeErr := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, decodeErr)
		}
		return nil
	}
}

// secondaryRateLimitWait reports whether an error is GitHub's secondary rate
// limit and how long to back off before retrying.
func secondaryRateLimitWait(err error) (time.Duration, bool) {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return 0, false
	}
	if httpErr.StatusCode != http.StatusForbidden || !strings.Contains(strings.ToLower(httpErr.Message), "secondary rate limit") {
		return 0, false
	}

	wait := 60 * time.Second
	if ra := httpErr.Headers.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	return wait, true
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}
