package vision

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Summary is the minimal view of a PR or issue used for alignment judgment
type Summary struct {
	Number  int
	Title   string
	Body    string
	Files   []string // pull requests
	Labels  []string // issues
	IsIssue bool
}

// Judge evaluates a single item against the vision document
type Judge interface {
	Judge(ctx context.Context, doc *Doc, item Summary) (Verdict, error)
	Close() error
}

const (
	docExcerptLimit  = 3000
	bodyExcerptLimit = 800
	maxPromptFiles   = 15
	maxPromptLabels  = 10
)

var promptControlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)

func cleanPromptText(s string) string {
	return promptControlChars.ReplaceAllString(s, " ")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// BuildPrompt renders the judgment prompt for one item. The same prompt is
// used by the synchronous judges and the bulk batch path.
func BuildPrompt(doc *Doc, item Summary) string {
	var b strings.Builder

	if item.IsIssue {
		fmt.Fprintf(&b, "You are reviewing a GitHub issue against a project's %s.\n\n", doc.Source)
	} else {
		fmt.Fprintf(&b, "You are reviewing a pull request against a project's %s.\n\n", doc.Source)
	}

	fmt.Fprintf(&b, "%s (first %d chars):\n%s\n\n", doc.Source, docExcerptLimit, truncate(cleanPromptText(doc.Content), docExcerptLimit))

	if item.IsIssue {
		fmt.Fprintf(&b, "Issue Title: %s\n", cleanPromptText(item.Title))
		fmt.Fprintf(&b, "Issue Description: %s\n", truncate(cleanPromptText(item.Body), bodyExcerptLimit))
		labels := item.Labels
		if len(labels) > maxPromptLabels {
			labels = labels[:maxPromptLabels]
		}
		fmt.Fprintf(&b, "Labels: %s\n\n", strings.Join(labels, ", "))
		b.WriteString("Does this issue describe work that fits the project vision?\n\n")
		b.WriteString(`Use "fits" if clearly within scope, "strays" if tangential, "rejects" if outside scope.`)
	} else {
		fmt.Fprintf(&b, "PR Title: %s\n", cleanPromptText(item.Title))
		fmt.Fprintf(&b, "PR Description: %s\n", truncate(cleanPromptText(item.Body), bodyExcerptLimit))
		files := item.Files
		if len(files) > maxPromptFiles {
			files = files[:maxPromptFiles]
		}
		fmt.Fprintf(&b, "Files changed: %s\n\n", strings.Join(files, ", "))
		b.WriteString("Does this PR fit the project vision?\n\n")
		b.WriteString(`Use "fits" if clearly within scope, "strays" if tangential, "rejects" if outside scope.`)
	}

	b.WriteString("\n\nReply with ONLY valid JSON matching this schema:\n")
	b.WriteString(`{"alignment": "fits" | "strays" | "rejects", "reason": "one sentence explanation"}`)

	return b.String()
}
