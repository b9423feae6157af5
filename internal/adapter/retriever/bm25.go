package retriever

import (
	"math"
	"sort"

	"reciperag/internal/domain"
	"reciperag/internal/port"
)

// BM25Retriever scores indexed chunks against a query with Okapi BM25.
type BM25Retriever struct {
	store     port.IndexStore
	tokenizer port.Tokenizer
	k1        float64
	b         float64
}

func NewBM25Retriever(store port.IndexStore, tokenizer port.Tokenizer, k1, b float64) *BM25Retriever {
	return &BM25Retriever{
		store:     store,
		tokenizer: tokenizer,
		k1:        k1,
		b:         b,
	}
}

// Search returns at most k chunks ordered by descending score. Ties are
// broken by chunk ID.
func (r *BM25Retriever) Search(query string, k int) ([]domain.ScoredChunk, error) {
	terms := uniqueTerms(r.tokenizer.Tokenize(query))
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}

	stats, err := r.store.GetStats()
	if err != nil {
		return nil, err
	}
	if stats.TotalChunks == 0 {
		return nil, nil
	}

	avgDl := stats.AvgChunkLen
	if avgDl <= 0 {
		avgDl = 1
	}
	N := float64(stats.TotalChunks)

	scores := make(map[string]float64)
	chunks := make(map[string]domain.Chunk)

	for _, term := range terms {
		postings, err := r.store.GetPostings(term)
		if err != nil {
			return nil, err
		}
		if len(postings) == 0 {
			continue
		}

		n := float64(len(postings))
		idf := math.Log((N-n+0.5)/(n+0.5) + 1)

		for _, p := range postings {
			chunk, seen := chunks[p.ChunkID]
			if !seen {
				chunk, err = r.store.GetChunk(p.ChunkID)
				if err != nil {
					// stale posting left behind by an interrupted index run
					continue
				}
				chunks[p.ChunkID] = chunk
			}

			tf := float64(p.TF)
			dl := float64(len(chunk.Tokens))
			scores[p.ChunkID] += idf * (tf * (r.k1 + 1)) / (tf + r.k1*(1-r.b+r.b*dl/avgDl))
		}
	}

	results := make([]domain.ScoredChunk, 0, len(scores))
	for id, score := range scores {
		results = append(results, domain.ScoredChunk{Chunk: chunks[id], Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func uniqueTerms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
