package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

const issueFooter = "---\n*Generated by [ClawTriage](https://github.com/GriffinAtlas/clawtriage) — issue batch mode*"

// issueQualityIssues summarizes what a low-scoring issue is missing
func issueQualityIssues(entry models.BatchIssueTriageEntry) string {
	b := entry.QualityBreakdown
	if b == nil {
		return "—"
	}
	var issues []string
	if b.HasDescription < 1 {
		issues = append(issues, "no description")
	}
	if b.HasReproSteps < 1 {
		issues = append(issues, "no repro steps")
	}
	if b.HasLabels < 1 {
		issues = append(issues, "no labels")
	}
	if b.FollowsTemplate < 1 {
		issues = append(issues, "no template")
	}
	if len(issues) == 0 {
		return "—"
	}
	return strings.Join(issues, ", ")
}

// BuildIssueReport renders an issue batch result as a postable issue
func BuildIssueReport(result *models.IssueBatchResult) Report {
	title := fmt.Sprintf("ClawTriage Issue Batch Report — %s — %s", result.Repo, runDate(result.Timestamp))
	stats := result.Stats
	var lines []string

	lines = append(lines,
		"## ClawTriage Issue Batch Triage Report\n",
		fmt.Sprintf("**Repository:** %s", result.Repo),
		fmt.Sprintf("**Issues analyzed:** %d", result.TotalIssues),
		fmt.Sprintf("**Run date:** %s\n", result.Timestamp),
		"### Summary\n",
		"| Metric | Count |",
		"|---|---|",
		fmt.Sprintf("| Total issues | %d |", stats.TotalIssues),
		fmt.Sprintf("| Duplicate clusters | %d (%d issues) |", stats.DuplicateClusters, stats.DuplicateIssues),
		fmt.Sprintf("| Avg quality score | %s/10 |", formatScore(stats.AvgQuality)),
		fmt.Sprintf("| Vision: fits | %d |", stats.VisionFits),
		fmt.Sprintf("| Vision: strays | %d |", stats.VisionStrays),
		fmt.Sprintf("| Vision: rejects | %d |", stats.VisionRejects),
		"",
	)

	canonicalOf := make(map[int]int)
	for _, c := range result.Clusters {
		for _, m := range c.Members {
			canonicalOf[m] = c.Canonical
		}
	}
	entryOf := make(map[int]models.BatchIssueTriageEntry, len(result.Entries))
	for _, e := range result.Entries {
		entryOf[e.IssueNumber] = e
	}

	if len(result.Clusters) > 0 {
		shown := result.Clusters
		suffix := ""
		if len(shown) > sectionRowLimit {
			suffix = fmt.Sprintf(" (showing %d of %d)", sectionRowLimit, len(shown))
			shown = shown[:sectionRowLimit]
		}
		lines = append(lines, fmt.Sprintf("### Duplicate Clusters%s\n", suffix))
		for i, c := range shown {
			lines = append(lines, fmt.Sprintf("**Cluster %d** (avg similarity: %d%%) — Canonical: #%d",
				i+1, percent(c.AvgSimilarity), c.Canonical))
			for _, m := range c.Members {
				memberTitle := fmt.Sprintf("Issue #%d", m)
				if e, ok := entryOf[m]; ok {
					memberTitle = e.Title
				}
				lines = append(lines, fmt.Sprintf("- #%d: %s", m, memberTitle))
			}
			lines = append(lines, "")
		}
	}

	visionWasRun := false
	for _, e := range result.Entries {
		if e.VisionAlignment != models.AlignmentPending {
			visionWasRun = true
			break
		}
	}

	var highPriority []models.BatchIssueTriageEntry
	for _, e := range result.Entries {
		if e.QualityScore >= 7 && (!visionWasRun || e.VisionAlignment == models.AlignmentFits) {
			highPriority = append(highPriority, e)
		}
	}
	sort.SliceStable(highPriority, func(i, j int) bool {
		return highPriority[i].QualityScore > highPriority[j].QualityScore
	})
	if len(highPriority) > 0 {
		shown := highPriority
		suffix := ""
		if len(shown) > sectionRowLimit {
			suffix = fmt.Sprintf(" (top %d of %d)", sectionRowLimit, len(shown))
			shown = shown[:sectionRowLimit]
		}
		criteria := "quality >= 7, vision not run"
		if visionWasRun {
			criteria = "quality >= 7, vision fits"
		}
		lines = append(lines,
			fmt.Sprintf("### High Priority Issues (%s)%s\n", criteria, suffix),
			"| Issue | Quality | Labels | Vision | Title |",
			"|---|---|---|---|---|",
		)
		for _, e := range shown {
			lines = append(lines, fmt.Sprintf("| #%d | %s/10 | %s | %s | %s |",
				e.IssueNumber, formatScore(e.QualityScore), formatLabels(e.Labels), e.VisionAlignment, e.Title))
		}
		lines = append(lines, "")
	}

	var needsInfo []models.BatchIssueTriageEntry
	for _, e := range result.Entries {
		if e.QualityScore < 4 {
			needsInfo = append(needsInfo, e)
		}
	}
	sort.SliceStable(needsInfo, func(i, j int) bool {
		return needsInfo[i].QualityScore < needsInfo[j].QualityScore
	})
	if len(needsInfo) > 0 {
		shown := needsInfo
		suffix := ""
		if len(shown) > sectionRowLimit {
			suffix = fmt.Sprintf(" (worst %d of %d)", sectionRowLimit, len(shown))
			shown = shown[:sectionRowLimit]
		}
		lines = append(lines,
			fmt.Sprintf("### Needs More Info (quality < 4)%s\n", suffix),
			"| Issue | Quality | Issues | Title |",
			"|---|---|---|---|",
		)
		for _, e := range shown {
			lines = append(lines, fmt.Sprintf("| #%d | %s/10 | %s | %s |",
				e.IssueNumber, formatScore(e.QualityScore), issueQualityIssues(e), e.Title))
		}
		lines = append(lines, "")
	}

	var rejects []models.BatchIssueTriageEntry
	for _, e := range result.Entries {
		if e.VisionAlignment == models.AlignmentRejects {
			rejects = append(rejects, e)
		}
	}
	if len(rejects) > 0 {
		shown := rejects
		suffix := ""
		if len(shown) > sectionRowLimit {
			suffix = fmt.Sprintf(" (first %d of %d)", sectionRowLimit, len(shown))
			shown = shown[:sectionRowLimit]
		}
		lines = append(lines,
			fmt.Sprintf("### Vision Rejects%s\n", suffix),
			"| Issue | Reason | Title |",
			"|---|---|---|",
		)
		for _, e := range shown {
			lines = append(lines, fmt.Sprintf("| #%d | %s | %s |",
				e.IssueNumber, truncateText(e.VisionReason, reasonLimit), e.Title))
		}
		lines = append(lines, "")
	}

	tableRows := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		dupeLabel := "-"
		if canonical, ok := canonicalOf[e.IssueNumber]; ok {
			dupeLabel = fmt.Sprintf("Dupe of #%d", canonical)
		}
		tableRows = append(tableRows, fmt.Sprintf("| #%d | %s | %s | %s | %s | %s | %s |",
			e.IssueNumber, formatScore(e.QualityScore), formatLabels(e.Labels), e.VisionAlignment, dupeLabel, e.RecommendedAction, e.Title))
	}

	headerBase := []string{"### Full Triage Table\n", "<details>"}
	columnHeader := []string{
		"| Issue | Quality | Labels | Vision | Dupes | Action | Title |",
		"|---|---|---|---|---|---|---|",
	}
	tableFooter := "\n</details>\n"

	placeholder := fmt.Sprintf("<summary>All %d issues</summary>\n", len(result.Entries))
	headerLen := len(strings.Join(append(append([]string{}, headerBase...), placeholder), "\n")) +
		len(strings.Join(columnHeader, "\n")) + 1 + len(tableFooter)
	preambleLen := len(strings.Join(lines, "\n"))
	budget := githubBodyLimit - preambleLen - len(issueFooter) - headerLen - 1000

	rowLines, includedCount, truncated := fitRows(tableRows, budget, len(result.Entries), "issues")

	summaryLabel := fmt.Sprintf("All %d issues", len(result.Entries))
	if truncated {
		summaryLabel = fmt.Sprintf("%d of %d issues (truncated)", includedCount, len(result.Entries))
	}

	lines = append(lines, headerBase...)
	lines = append(lines, fmt.Sprintf("<summary>%s</summary>\n", summaryLabel))
	lines = append(lines, columnHeader...)
	lines = append(lines, rowLines...)
	lines = append(lines, tableFooter, issueFooter)

	return Report{Title: title, Body: strings.Join(lines, "\n")}
}
