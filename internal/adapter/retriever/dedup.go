package retriever

import "reciperag/internal/domain"

// Deduplicate keeps chunks in order, dropping any whose token Jaccard
// similarity to an already kept chunk exceeds threshold. Overlapping line
// windows from the same file are the usual casualties.
func Deduplicate(chunks []domain.ScoredChunk, threshold float64) []domain.ScoredChunk {
	if threshold <= 0 || threshold >= 1 {
		return chunks
	}

	kept := make([]domain.ScoredChunk, 0, len(chunks))
	sets := make([]map[string]struct{}, 0, len(chunks))

	for _, c := range chunks {
		set := tokenSet(c.Chunk.Tokens)
		duplicate := false
		for _, other := range sets {
			if jaccard(set, other) > threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, c)
		sets = append(sets, set)
	}
	return kept
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
