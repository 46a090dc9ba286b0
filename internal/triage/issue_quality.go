package triage

import (
	"regexp"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// reproPatterns are structural signals that an issue carries enough detail to
// reproduce: step/behavior keywords, stack traces, long code fences, version
// and environment markers.
var reproPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)steps\s+to\s+reproduce`),
	regexp.MustCompile(`(?i)expected\s+behavio(?:u)?r`),
	regexp.MustCompile(`(?i)actual\s+behavio(?:u)?r`),
	regexp.MustCompile(`(?i)stack\s*trace`),
	regexp.MustCompile(`(?i)error\s+message`),
	regexp.MustCompile(`(?i)error\s+log`),
	regexp.MustCompile("(?s)```.{20,}```"),
	regexp.MustCompile(`(?i)version\s*[:\s]\s*\d`),
	regexp.MustCompile(`(?i)environment`),
	regexp.MustCompile(`(?i)platform`),
	regexp.MustCompile(`(?i)\bos\b`),
}

// templatePatterns are issue-template section headers and checklist items
var templatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^##\s+description`),
	regexp.MustCompile(`(?im)^##\s+steps`),
	regexp.MustCompile(`(?im)^##\s+expected`),
	regexp.MustCompile(`(?im)^##\s+actual`),
	regexp.MustCompile(`(?im)^##\s+environment`),
	regexp.MustCompile(`(?im)^##\s+additional\s+context`),
	regexp.MustCompile(`(?im)^##\s+acceptance\s+criteria`),
	regexp.MustCompile(`(?im)^##\s+use\s+case`),
	regexp.MustCompile(`(?im)^##\s+motivation`),
	regexp.MustCompile(`(?im)^##\s+proposal`),
	regexp.MustCompile(`(?im)^-\s+\[[ x]\]`),
}

func countMatches(body string, patterns []*regexp.Regexp) int {
	matches := 0
	for _, p := range patterns {
		if p.MatchString(body) {
			matches++
		}
	}
	return matches
}

// matchTierScore maps a pattern-match count to a sub-score via the
// >=3 / >=2 / >=1 thresholds.
func matchTierScore(matches int) float64 {
	switch {
	case matches >= 3:
		return 2.5
	case matches >= 2:
		return 1.5
	case matches >= 1:
		return 0.5
	default:
		return 0.0
	}
}

func scoreReproSteps(body string) float64 {
	return matchTierScore(countMatches(body, reproPatterns))
}

func scoreLabels(labels []string) float64 {
	switch {
	case len(labels) >= 2:
		return 2.5
	case len(labels) >= 1:
		return 1.5
	default:
		return 0.0
	}
}

func scoreTemplate(body string) float64 {
	return matchTierScore(countMatches(body, templatePatterns))
}

// ScoreIssue computes the full-tier quality score for an issue
func ScoreIssue(issue *models.Issue) (float64, models.IssueQualityBreakdown) {
	breakdown := models.IssueQualityBreakdown{
		HasDescription:  scoreDescription(issue.Body),
		HasReproSteps:   scoreReproSteps(issue.Body),
		HasLabels:       scoreLabels(issue.Labels),
		FollowsTemplate: scoreTemplate(issue.Body),
	}

	score := breakdown.HasDescription + breakdown.HasReproSteps +
		breakdown.HasLabels + breakdown.FollowsTemplate
	return round1(score), breakdown
}

// ScorePartialIssue computes the partial-tier score from list data alone
// (body and labels). Callers cap the result at 5.0.
func ScorePartialIssue(body string, labels []string) (float64, models.IssueQualityBreakdown) {
	breakdown := models.IssueQualityBreakdown{
		HasDescription: scoreDescription(body),
		HasLabels:      scoreLabels(labels),
	}
	return round1(breakdown.HasDescription + breakdown.HasLabels), breakdown
}
