package vision

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ContentFetcher retrieves a repository file's content. A missing file is
// reported as an empty string with a nil error.
type ContentFetcher interface {
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
}

// Doc is the vision document a repository is judged against
type Doc struct {
	Content string
	Source  string // "VISION.md" or "README.md"
}

// FetchDoc loads the repository's vision document, falling back to the README
// when no VISION.md exists. It returns nil when neither file is present.
func FetchDoc(ctx context.Context, fetcher ContentFetcher, owner, repo string) (*Doc, error) {
	for _, path := range []string{"VISION.md", "README.md"} {
		content, err := fetcher.GetFileContent(ctx, owner, repo, path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
		}
		if strings.TrimSpace(content) != "" {
			if path != "VISION.md" {
				log.Printf("[Vision] No VISION.md found, using README.md")
			}
			return &Doc{Content: content, Source: path}, nil
		}
	}
	return nil, nil
}
