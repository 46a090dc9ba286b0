package triage

import (
	"strings"
	"testing"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

func TestScoreDiffSize(t *testing.T) {
	tests := []struct {
		name      string
		additions int
		deletions int
		want      float64
	}{
		{"small diff", 100, 50, 2.5},
		{"exactly 500", 400, 100, 2.5},
		{"just over 500", 400, 101, 2.0},
		{"exactly 2000", 1500, 500, 2.0},
		{"just over 2000", 2000, 1, 1.0},
		{"exactly 5000", 4000, 1000, 1.0},
		{"huge diff", 9000, 2000, 0.0},
		{"empty diff", 0, 0, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := &models.PR{Additions: tt.additions, Deletions: tt.deletions}
			if got := scoreDiffSize(pr); got != tt.want {
				t.Errorf("scoreDiffSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"empty", "", 0.0},
		{"whitespace only", "   \n\t  ", 0.0},
		{"exactly 50 chars", strings.Repeat("a", 50), 0.0},
		{"51 chars", strings.Repeat("a", 51), 0.5},
		{"exactly 150 chars", strings.Repeat("a", 150), 0.5},
		{"151 chars", strings.Repeat("a", 151), 1.5},
		{"exactly 300 chars", strings.Repeat("a", 300), 1.5},
		{"301 chars", strings.Repeat("a", 301), 2.5},
		{"padded body trimmed before measuring", "  " + strings.Repeat("a", 301) + "  ", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreDescription(tt.body); got != tt.want {
				t.Errorf("scoreDescription = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreSingleTopic(t *testing.T) {
	tests := []struct {
		files int
		want  float64
	}{
		{1, 2.5},
		{3, 2.5},
		{4, 2.0},
		{8, 2.0},
		{9, 1.0},
		{15, 1.0},
		{16, 0.5},
		{100, 0.5},
	}

	for _, tt := range tests {
		pr := &models.PR{ChangedFiles: tt.files}
		if got := scoreSingleTopic(pr); got != tt.want {
			t.Errorf("scoreSingleTopic(%d files) = %v, want %v", tt.files, got, tt.want)
		}
	}
}

func TestScoreFormat(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  float64
	}{
		{"feat", "feat: add retry logic", 2.5},
		{"fix with scope", "fix(parser): handle empty input", 2.5},
		{"breaking change marker", "feat(api)!: drop v1 endpoints", 2.5},
		{"chore", "chore: bump deps", 2.5},
		{"revert", "revert: feat: add retry logic", 2.5},
		{"no type prefix", "Add retry logic", 0.0},
		{"unknown type", "feature: add retry logic", 0.0},
		{"missing space after colon", "fix:handle empty input", 0.0},
		{"missing subject", "fix: ", 0.0},
		{"uppercase type", "Fix: handle empty input", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreFormat(tt.title); got != tt.want {
				t.Errorf("scoreFormat(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestScorePR(t *testing.T) {
	pr := &models.PR{
		Number:       12,
		Title:        "fix(cache): avoid rebuilding on every call",
		Body:         strings.Repeat("A detailed explanation. ", 20), // > 300 chars
		Additions:    120,
		Deletions:    30,
		ChangedFiles: 2,
	}

	score, breakdown := ScorePR(pr)
	if score != 10.0 {
		t.Errorf("score = %v, want 10.0", score)
	}
	want := models.QualityBreakdown{DiffSize: 2.5, HasDescription: 2.5, SingleTopic: 2.5, FollowsFormat: 2.5}
	if breakdown != want {
		t.Errorf("breakdown = %+v, want %+v", breakdown, want)
	}
}

func TestScorePRWorstCase(t *testing.T) {
	pr := &models.PR{
		Title:        "misc changes",
		Body:         "",
		Additions:    9000,
		Deletions:    1000,
		ChangedFiles: 40,
	}

	score, breakdown := ScorePR(pr)
	if score != 0.5 {
		t.Errorf("score = %v, want 0.5", score)
	}
	if breakdown.SingleTopic != 0.5 {
		t.Errorf("singleTopic = %v, want 0.5", breakdown.SingleTopic)
	}
}

func TestScorePartialPR(t *testing.T) {
	score, breakdown := ScorePartialPR("feat: add widgets", strings.Repeat("b", 301))
	if score != 5.0 {
		t.Errorf("score = %v, want 5.0", score)
	}
	if breakdown.DiffSize != 0 || breakdown.SingleTopic != 0 {
		t.Errorf("partial breakdown should leave detail criteria at zero: %+v", breakdown)
	}

	score, _ = ScorePartialPR("random title", "")
	if score != 0.0 {
		t.Errorf("score = %v, want 0.0", score)
	}
}
