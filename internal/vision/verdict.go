// Package vision converts free-text scope judgments from an LLM into closed
// three-way alignment verdicts, including the bulk submit-and-poll path used
// by batch triage.
package vision

import (
	"encoding/json"
	"regexp"

	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// Verdict is a closed alignment judgment plus a one-sentence reason
type Verdict struct {
	Alignment models.Alignment `json:"alignment"`
	Reason    string           `json:"reason"`
}

var jsonFragment = regexp.MustCompile(`(?s)\{.*\}`)

// ParseVerdict extracts and validates a verdict from raw model output. The
// second return is false when the output carries no well-formed judgment;
// callers then substitute a degraded verdict instead of failing the item.
func ParseVerdict(text string) (Verdict, bool) {
	v, reason := classifyVerdict(text)
	return v, reason == ""
}

// classifyVerdict reports why a model reply could not be used, so degraded
// verdicts name the specific failure stage.
func classifyVerdict(text string) (Verdict, string) {
	match := jsonFragment.FindString(text)
	if match == "" {
		return Verdict{}, "Unparseable model response"
	}

	var v Verdict
	if err := json.Unmarshal([]byte(match), &v); err != nil {
		return Verdict{}, "Malformed JSON in model response"
	}

	switch v.Alignment {
	case models.AlignmentFits, models.AlignmentStrays, models.AlignmentRejects:
		return v, ""
	default:
		return Verdict{}, "Invalid model response"
	}
}

// degraded is the verdict substituted when the model's reply is unusable; the
// item is treated as straying so it still surfaces for human review.
func degraded(reason string) Verdict {
	return Verdict{Alignment: models.AlignmentStrays, Reason: reason}
}

// NoVisionVerdict is the fixed verdict applied to every item when the
// repository has no vision document to judge against.
func NoVisionVerdict() Verdict {
	return Verdict{
		Alignment: models.AlignmentStrays,
		Reason:    "No VISION.md or README.md found in repository",
	}
}

// ErrorVerdict marks an item whose judgment failed or was unusable
func ErrorVerdict(reason string) Verdict {
	return Verdict{Alignment: models.AlignmentError, Reason: reason}
}
