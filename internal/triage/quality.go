// Package triage implements the heuristic quality scorers, the
// action-derivation decision tables, and the single-PR triage flow.
package triage

import (
	"math"
	"regexp"
	"strings"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// FormatRegex matches conventional-commit-style PR titles: an allow-listed
// type prefix, optional scope, optional breaking-change marker, then ": ".
var FormatRegex = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\(.+\))?!?:\s.+`)

func scoreDiffSize(pr *models.PR) float64 {
	total := pr.Additions + pr.Deletions
	switch {
	case total <= 500:
		return 2.5
	case total <= 2000:
		return 2.0
	case total <= 5000:
		return 1.0
	default:
		return 0.0
	}
}

func scoreDescription(body string) float64 {
	length := len(strings.TrimSpace(body))
	switch {
	case length > 300:
		return 2.5
	case length > 150:
		return 1.5
	case length > 50:
		return 0.5
	default:
		return 0.0
	}
}

func scoreSingleTopic(pr *models.PR) float64 {
	switch {
	case pr.ChangedFiles <= 3:
		return 2.5
	case pr.ChangedFiles <= 8:
		return 2.0
	case pr.ChangedFiles <= 15:
		return 1.0
	default:
		return 0.5
	}
}

func scoreFormat(title string) float64 {
	if FormatRegex.MatchString(title) {
		return 2.5
	}
	return 0.0
}

// ScorePR computes the full-tier quality score for a PR with detail data.
// The total is the sum of the sub-scores, rounded to 1 decimal.
func ScorePR(pr *models.PR) (float64, models.QualityBreakdown) {
	breakdown := models.QualityBreakdown{
		DiffSize:       scoreDiffSize(pr),
		HasDescription: scoreDescription(pr.Body),
		SingleTopic:    scoreSingleTopic(pr),
		FollowsFormat:  scoreFormat(pr.Title),
	}

	score := breakdown.DiffSize + breakdown.HasDescription +
		breakdown.SingleTopic + breakdown.FollowsFormat
	return round1(score), breakdown
}

// ScorePartialPR computes the partial-tier score from list data alone
// (title and body). Callers cap the result at 5.0 so partial items cannot
// outrank fully-scored ones.
func ScorePartialPR(title, body string) (float64, models.QualityBreakdown) {
	breakdown := models.QualityBreakdown{
		HasDescription: scoreDescription(body),
		FollowsFormat:  scoreFormat(title),
	}
	return round1(breakdown.HasDescription + breakdown.FollowsFormat), breakdown
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
