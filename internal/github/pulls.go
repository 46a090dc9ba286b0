package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

type apiUser struct {
	Login string `json:"login"`
}

type apiPR struct {
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	User         apiUser   `json:"user"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	ChangedFiles int       `json:"changed_files"`
	CreatedAt    string    `json:"created_at"`
}

type apiPRFile struct {
	Filename string `json:"filename"`
}

func (p *apiPR) toBatchPR() models.BatchPR {
	return models.BatchPR{
		Number:    p.Number,
		Title:     p.Title,
		Body:      p.Body,
		User:      p.User.Login,
		CreatedAt: p.CreatedAt,
	}
}

// ListOpenPRs fetches all open pull requests using pagination. The list
// endpoint omits diff stats and file lists; those come from GetPRDetails.
func (c *Client) ListOpenPRs(ctx context.Context, owner, repo string) ([]models.BatchPR, error) {
	var all []models.BatchPR
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

		endpoint := fmt.Sprintf("repos/%s/%s/pulls?%s", owner, repo, params.Encode())

		var prs []apiPR
		if err := c.get(ctx, endpoint, &prs); err != nil {
			return nil, fmt.Errorf("failed to list open PRs: %w", err)
		}

		for i := range prs {
			all = append(all, prs[i].toBatchPR())
		}

		if len(prs) < perPage {
			break
		}
		page++
	}

	return all, nil
}

// GetPRDetails fetches a single PR's diff stats and changed file list
func (c *Client) GetPRDetails(ctx context.Context, owner, repo string, number int) (models.EnrichedPRData, error) {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return models.EnrichedPRData{}, err
	}

	var pr apiPR
	endpoint := fmt.Sprintf("repos/%s/%s/pulls/%d", owner, repo, number)
	if err := c.get(ctx, endpoint, &pr); err != nil {
		return models.EnrichedPRData{}, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}

	files, err := c.listPRFiles(ctx, owner, repo, number)
	if err != nil {
		return models.EnrichedPRData{}, err
	}

	return models.EnrichedPRData{
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
		FileList:     files,
	}, nil
}

// GetPR fetches a single PR with full detail data
func (c *Client) GetPR(ctx context.Context, owner, repo string, number int) (*models.PR, error) {
	if err := c.WaitIfRateLimited(ctx); err != nil {
		return nil, err
	}

	var pr apiPR
	endpoint := fmt.Sprintf("repos/%s/%s/pulls/%d", owner, repo, number)
	if err := c.get(ctx, endpoint, &pr); err != nil {
		return nil, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}

	files, err := c.listPRFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	return &models.PR{
		Number:       pr.Number,
		Title:        pr.Title,
		Body:         pr.Body,
		User:         pr.User.Login,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
		FileList:     files,
		CreatedAt:    pr.CreatedAt,
	}, nil
}

func (c *Client) listPRFiles(ctx context.Context, owner, repo string, number int) ([]string, error) {
	params := url.Values{}
	params.Set("per_page", "50")

	endpoint := fmt.Sprintf("repos/%s/%s/pulls/%d/files?%s", owner, repo, number, params.Encode())

	var files []apiPRFile
	if err := c.get(ctx, endpoint, &files); err != nil {
		return nil, fmt.Errorf("failed to list files for PR #%d: %w", number, err)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names, nil
}
