package vision

import (
	"context"
	"errors"
	"testing"
)

type fakeFetcher struct {
	files map[string]string
	err   error
}

func (f *fakeFetcher) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.files[path], nil
}

func TestFetchDoc(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers VISION.md", func(t *testing.T) {
		fetcher := &fakeFetcher{files: map[string]string{
			"VISION.md": "# Vision\nBuild the thing.",
			"README.md": "# Readme",
		}}
		doc, err := FetchDoc(ctx, fetcher, "acme", "widgets")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc == nil || doc.Source != "VISION.md" {
			t.Fatalf("doc = %+v, want VISION.md source", doc)
		}
	})

	t.Run("falls back to README.md", func(t *testing.T) {
		fetcher := &fakeFetcher{files: map[string]string{
			"README.md": "# Readme\nGeneral purpose widgets.",
		}}
		doc, err := FetchDoc(ctx, fetcher, "acme", "widgets")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc == nil || doc.Source != "README.md" {
			t.Fatalf("doc = %+v, want README.md source", doc)
		}
	})

	t.Run("whitespace-only vision falls through", func(t *testing.T) {
		fetcher := &fakeFetcher{files: map[string]string{
			"VISION.md": "   \n\t",
			"README.md": "content",
		}}
		doc, err := FetchDoc(ctx, fetcher, "acme", "widgets")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc == nil || doc.Source != "README.md" {
			t.Fatalf("doc = %+v, want README.md source", doc)
		}
	})

	t.Run("neither file present", func(t *testing.T) {
		doc, err := FetchDoc(ctx, &fakeFetcher{files: map[string]string{}}, "acme", "widgets")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc != nil {
			t.Fatalf("doc = %+v, want nil", doc)
		}
	})

	t.Run("fetch error propagates", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("boom")}
		if _, err := FetchDoc(ctx, fetcher, "acme", "widgets"); err == nil {
			t.Fatal("expected error")
		}
	})
}
