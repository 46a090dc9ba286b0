package triage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

var actionLabels = map[models.Action]string{
	models.ActionMergeCandidate:   "✅ Merge Candidate",
	models.ActionReviewDuplicates: "🔎 Review Duplicates",
	models.ActionNeedsRevision:    "✏️ Needs Revision",
	models.ActionClose:            "🚫 Close",
	models.ActionFlag:             "🏳️ Flag",
}

// BuildDraftComment renders a triage result as a markdown comment ready to
// post on the PR.
func BuildDraftComment(result *models.TriageResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## 🔍 ClawTriage Report — PR #%d\n\n", result.PRNumber))
	sb.WriteString(fmt.Sprintf("**Recommendation:** %s\n\n", actionLabels[result.RecommendedAction]))

	sb.WriteString("### Duplicate Check\n\n")
	switch {
	case result.IsDuplicate:
		sb.WriteString("⚠️ **Potential duplicate detected:**\n\n")
		writeSimilarTable(&sb, result.DuplicateOf)
	case len(result.DuplicateOf) > 0:
		sb.WriteString("Similar PRs found (below duplicate threshold):\n\n")
		writeSimilarTable(&sb, result.DuplicateOf)
	default:
		sb.WriteString("No similar PRs found.\n")
	}
	sb.WriteString("\n")

	b := result.QualityBreakdown
	sb.WriteString(fmt.Sprintf("### Quality Score: %s/10\n\n", formatScore(result.QualityScore)))
	sb.WriteString(fmt.Sprintf("- Diff size: %s/2.5\n", formatScore(b.DiffSize)))
	sb.WriteString(fmt.Sprintf("- Description: %s/2.5\n", formatScore(b.HasDescription)))
	sb.WriteString(fmt.Sprintf("- Single topic: %s/2.5\n", formatScore(b.SingleTopic)))
	sb.WriteString(fmt.Sprintf("- Title format: %s/2.5\n\n", formatScore(b.FollowsFormat)))

	sb.WriteString(fmt.Sprintf("### Vision Alignment: %s\n\n", result.VisionAlignment))
	sb.WriteString(fmt.Sprintf("%s\n\n", result.VisionReason))

	sb.WriteString("---\n")
	sb.WriteString("<sub>🤖 Generated by [ClawTriage](https://github.com/GriffinAtlas/clawtriage)</sub>")

	return sb.String()
}

func writeSimilarTable(sb *strings.Builder, similar []models.SimilarPR) {
	sb.WriteString("| PR | Similarity | Title |\n")
	sb.WriteString("|---|---|---|\n")
	for _, s := range similar {
		sb.WriteString(fmt.Sprintf("| #%d | %.1f%% | %s |\n", s.Number, s.Score*100, s.Title))
	}
}

// formatScore renders a score without trailing zeros (8 not 8.0, 2.5 as is)
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
