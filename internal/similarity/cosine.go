// Package similarity implements the pairwise similarity and duplicate
// clustering engines used by both single-item and batch triage.
package similarity

import "math"

// Cosine computes the cosine similarity of two vectors. It returns exactly 0
// when the lengths differ, when either vector has zero norm, or when the
// input is empty, so it never divides by zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
