package vision

import (
	"testing"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantOK        bool
		wantAlignment models.Alignment
		wantReason    string
	}{
		{
			name:          "clean json",
			text:          `{"alignment": "fits", "reason": "Directly implements a roadmap item."}`,
			wantOK:        true,
			wantAlignment: models.AlignmentFits,
			wantReason:    "Directly implements a roadmap item.",
		},
		{
			name:          "json wrapped in prose",
			text:          "Sure, here is my evaluation:\n```json\n{\"alignment\": \"rejects\", \"reason\": \"Out of scope.\"}\n```\nLet me know if you need more.",
			wantOK:        true,
			wantAlignment: models.AlignmentRejects,
			wantReason:    "Out of scope.",
		},
		{
			name:          "strays verdict",
			text:          `{"alignment": "strays", "reason": "Tangential to the core goals."}`,
			wantOK:        true,
			wantAlignment: models.AlignmentStrays,
		},
		{
			name:   "no json at all",
			text:   "I think this PR fits the project.",
			wantOK: false,
		},
		{
			name:   "empty string",
			text:   "",
			wantOK: false,
		},
		{
			name:   "malformed json",
			text:   `{"alignment": "fits", "reason": }`,
			wantOK: false,
		},
		{
			name:   "unknown alignment value",
			text:   `{"alignment": "maybe", "reason": "Unsure."}`,
			wantOK: false,
		},
		{
			name:   "missing alignment field",
			text:   `{"reason": "Looks good."}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseVerdict(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseVerdict ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if v.Alignment != tt.wantAlignment {
				t.Errorf("alignment = %q, want %q", v.Alignment, tt.wantAlignment)
			}
			if tt.wantReason != "" && v.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", v.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassifyVerdictReasons(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantReason string
	}{
		{"no json", "plain prose", "Unparseable model response"},
		{"broken json", `{"alignment": `, "Unparseable model response"},
		{"invalid json inside braces", `{"alignment": fits}`, "Malformed JSON in model response"},
		{"out of set value", `{"alignment": "approve", "reason": "x"}`, "Invalid model response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reason := classifyVerdict(tt.text)
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestNoVisionVerdict(t *testing.T) {
	v := NoVisionVerdict()
	if v.Alignment != models.AlignmentStrays {
		t.Errorf("alignment = %q, want strays", v.Alignment)
	}
	if v.Reason == "" {
		t.Error("expected a non-empty reason")
	}
}
