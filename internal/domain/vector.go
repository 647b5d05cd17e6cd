package domain

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched dimensions or a zero-norm operand yield 0.0 rather than an
// error: a degenerate vector simply matches nothing.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
