package retrieval

import "github.com/chemtrace/sdsvault/core"

// bestMatch selects the candidate whose stored embedding has the highest
// dot-product similarity with the query vector. Only a strictly higher
// score displaces the current best, so ties resolve to the earliest
// candidate in the given order. Candidates without a stored vector are
// skipped; ok is false when no candidate produced a usable score.
func bestMatch(query []float32, candidates []*core.SectionDocument) (best *core.SectionDocument, bestScore float32, ok bool) {
	for _, doc := range candidates {
		if len(doc.Vector) == 0 {
			continue
		}
		score := dotProduct(query, doc.Vector)
		if !ok || score > bestScore {
			best = doc
			bestScore = score
			ok = true
		}
	}
	return best, bestScore, ok
}

// dotProduct calculates the dot product of two vectors.
// Raw dot product, not cosine: normalizing would change ranking relative
// to the stored corpus.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
