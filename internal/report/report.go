// Package report renders batch triage results as GitHub-flavored markdown
// reports sized to fit inside a single issue body.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// githubBodyLimit is GitHub's maximum issue body length
	githubBodyLimit = 65536

	// sectionRowLimit caps rows per summary section so the headline sections
	// stay readable even on huge repositories
	sectionRowLimit = 50

	reasonLimit = 120
)

// Report is a rendered issue ready to post
type Report struct {
	Title string
	Body  string
}

// truncateText caps text at max characters, never splitting a multibyte rune
func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return text
}

// formatScore renders a score without trailing zeros
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

func runDate(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i >= 0 {
		return timestamp[:i]
	}
	return timestamp
}

func formatLabels(labels []string) string {
	if len(labels) == 0 {
		return "—"
	}
	if len(labels) > 3 {
		labels = labels[:3]
	}
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("`%s`", l)
	}
	return strings.Join(quoted, " ")
}

// fitRows selects as many table rows as fit within the character budget.
// It returns the rows to render (including any truncation notice), how many
// data rows made it in, and whether anything was cut.
func fitRows(rows []string, budget int, total int, unit string) ([]string, int, bool) {
	if budget <= 0 {
		return []string{"*Table omitted — summary sections exceeded size limit. Full data available in batch JSON output.*"}, 0, true
	}

	joined := 0
	for i, row := range rows {
		joined += len(row)
		if i > 0 {
			joined++
		}
	}
	if joined <= budget {
		return rows, len(rows), false
	}

	var included []string
	used := 0
	for _, row := range rows {
		if used+len(row)+1 > budget {
			break
		}
		included = append(included, row)
		used += len(row) + 1
	}
	count := len(included)
	included = append(included, "",
		fmt.Sprintf("*... truncated (%d/%d %s shown). Full data available in batch JSON output.*", count, total, unit))
	return included, count, true
}
