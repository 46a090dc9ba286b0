package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

const prFooter = "---\n*Generated by [ClawTriage](https://github.com/GriffinAtlas/clawtriage) — batch mode*"

// prQualityIssues summarizes what a low-scoring PR is missing
func prQualityIssues(entry models.BatchTriageEntry) string {
	b := entry.QualityBreakdown
	if b == nil {
		return "—"
	}
	var issues []string
	if b.HasDescription < 1 {
		issues = append(issues, "no description")
	}
	if b.FollowsFormat == 0 {
		issues = append(issues, "no conventional title")
	}
	if b.DiffSize < 1 {
		issues = append(issues, "too large")
	}
	if b.SingleTopic < 1 {
		issues = append(issues, "too many files")
	}
	if len(issues) == 0 {
		return "—"
	}
	return strings.Join(issues, ", ")
}

// BuildPRReport renders a PR batch result as a postable issue. The headline
// sections are row-capped; the full table is greedily trimmed to keep the
// whole body under GitHub's limit.
func BuildPRReport(result *models.BatchResult) Report {
	title := fmt.Sprintf("ClawTriage Batch Report — %s — %s", result.Repo, runDate(result.Timestamp))
	stats := result.Stats
	var lines []string

	lines = append(lines,
		"## ClawTriage Batch Triage Report\n",
		fmt.Sprintf("**Repository:** %s", result.Repo),
		fmt.Sprintf("**PRs analyzed:** %d", result.TotalPRs),
		fmt.Sprintf("**Run date:** %s\n", result.Timestamp),
		"### Summary\n",
		"| Metric | Count |",
		"|---|---|",
		fmt.Sprintf("| Total PRs | %d |", stats.TotalPRs),
		fmt.Sprintf("| Duplicate clusters | %d (%d PRs) |", stats.DuplicateClusters, stats.DuplicatePRs),
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
	entryOf := make(map[int]models.BatchTriageEntry, len(result.Entries))
	for _, e := range result.Entries {
		entryOf[e.PRNumber] = e
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
				memberTitle := fmt.Sprintf("PR #%d", m)
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

	var mergeCandidates []models.BatchTriageEntry
	for _, e := range result.Entries {
		if e.QualityScore >= 8 && (!visionWasRun || e.VisionAlignment == models.AlignmentFits) {
			mergeCandidates = append(mergeCandidates, e)
		}
	}
	sort.SliceStable(mergeCandidates, func(i, j int) bool {
		return mergeCandidates[i].QualityScore > mergeCandidates[j].QualityScore
	})
	if len(mergeCandidates) > 0 {
		shown := mergeCandidates
		suffix := ""
		if len(shown) > sectionRowLimit {
			suffix = fmt.Sprintf(" (top %d of %d)", sectionRowLimit, len(shown))
			shown = shown[:sectionRowLimit]
		}
		criteria := "quality >= 8, vision not run"
		if visionWasRun {
			criteria = "quality >= 8, vision fits"
		}
		lines = append(lines,
			fmt.Sprintf("### Top Merge Candidates (%s)%s\n", criteria, suffix),
			"| PR | Quality | Vision | Title |",
			"|---|---|---|---|",
		)
		for _, e := range shown {
			lines = append(lines, fmt.Sprintf("| #%d | %s/10 | %s | %s |",
				e.PRNumber, formatScore(e.QualityScore), e.VisionAlignment, e.Title))
		}
		lines = append(lines, "")
	}

	var needsRevision []models.BatchTriageEntry
	for _, e := range result.Entries {
		if e.QualityScore < 4 {
			needsRevision = append(needsRevision, e)
		}
	}
	sort.SliceStable(needsRevision, func(i, j int) bool {
		return needsRevision[i].QualityScore < needsRevision[j].QualityScore
	})
	if len(needsRevision) > 0 {
		shown := needsRevision
		suffix := ""
		if len(shown) > sectionRowLimit {
			suffix = fmt.Sprintf(" (worst %d of %d)", sectionRowLimit, len(shown))
			shown = shown[:sectionRowLimit]
		}
		lines = append(lines,
			fmt.Sprintf("### Needs Revision (quality < 4)%s\n", suffix),
			"| PR | Quality | Issues | Title |",
			"|---|---|---|---|",
		)
		for _, e := range shown {
			lines = append(lines, fmt.Sprintf("| #%d | %s/10 | %s | %s |",
				e.PRNumber, formatScore(e.QualityScore), prQualityIssues(e), e.Title))
		}
		lines = append(lines, "")
	}

	var rejects []models.BatchTriageEntry
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
			"| PR | Reason | Title |",
			"|---|---|---|",
		)
		for _, e := range shown {
			lines = append(lines, fmt.Sprintf("| #%d | %s | %s |",
				e.PRNumber, truncateText(e.VisionReason, reasonLimit), e.Title))
		}
		lines = append(lines, "")
	}

	tableRows := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		dupeLabel := "-"
		if canonical, ok := canonicalOf[e.PRNumber]; ok {
			dupeLabel = fmt.Sprintf("Dupe of #%d", canonical)
		}
		tableRows = append(tableRows, fmt.Sprintf("| #%d | %s | %s | %s | %s | %s |",
			e.PRNumber, formatScore(e.QualityScore), e.VisionAlignment, dupeLabel, e.RecommendedAction, e.Title))
	}

	headerBase := []string{"### Full Triage Table\n", "<details>"}
	columnHeader := []string{
		"| PR | Quality | Vision | Dupes | Action | Title |",
		"|---|---|---|---|---|---|",
	}
	tableFooter := "\n</details>\n"

	placeholder := fmt.Sprintf("<summary>All %d PRs</summary>\n", len(result.Entries))
	headerLen := len(strings.Join(append(append([]string{}, headerBase...), placeholder), "\n")) +
		len(strings.Join(columnHeader, "\n")) + 1 + len(tableFooter)
	preambleLen := len(strings.Join(lines, "\n"))
	budget := githubBodyLimit - preambleLen - len(prFooter) - headerLen - 1000

	rowLines, includedCount, truncated := fitRows(tableRows, budget, len(result.Entries), "PRs")

	summaryLabel := fmt.Sprintf("All %d PRs", len(result.Entries))
	if truncated {
		summaryLabel = fmt.Sprintf("%d of %d PRs (truncated)", includedCount, len(result.Entries))
	}

	lines = append(lines, headerBase...)
	lines = append(lines, fmt.Sprintf("<summary>%s</summary>\n", summaryLabel))
	lines = append(lines, columnHeader...)
	lines = append(lines, rowLines...)
	lines = append(lines, tableFooter, prFooter)

	return Report{Title: title, Body: strings.Join(lines, "\n")}
}
