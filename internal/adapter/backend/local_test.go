package backend

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reciperag/internal/adapter/analyzer"
	"reciperag/internal/adapter/memstore"
	"reciperag/internal/adapter/retriever"
	"reciperag/internal/domain"
	"reciperag/internal/port"
)

var _ port.DocumentBackend = (*LocalBackend)(nil)

func seedIndex(t *testing.T, root string) *memstore.MemoryStore {
	t.Helper()
	tok := analyzer.NewTokenizer()
	st := memstore.NewMemoryStore()

	files := []struct {
		id, name, text string
		start, end     int
	}{
		{"f1", "notes/soup.md", "Simmer red lentils with cumin until soft.", 1, 4},
		{"f2", "notes/salad.md", "Quinoa salad with cucumber and mint.", 10, 12},
	}
	for _, f := range files {
		require.NoError(t, st.PutFile(domain.SourceFile{ID: f.id, Path: filepath.Join(root, f.name)}))
		chunk := domain.Chunk{
			ID:        f.id + "-c",
			FileID:    f.id,
			StartLine: f.start,
			EndLine:   f.end,
			Tokens:    tok.Tokenize(f.text),
			Text:      f.text,
		}
		require.NoError(t, st.PutChunk(chunk))
		tf := map[string]int{}
		for _, token := range chunk.Tokens {
			tf[token]++
		}
		for term, n := range tf {
			require.NoError(t, st.PutPosting(term, chunk.ID, n))
		}
	}

	stats := domain.Stats{TotalFiles: 2, TotalChunks: 2, AvgChunkLen: 5}
	require.NoError(t, st.UpdateStats(stats))
	return st
}

func TestLocalBackend_RetrieveDocuments(t *testing.T) {
	root := t.TempDir()
	st := seedIndex(t, root)
	r := retriever.NewBM25Retriever(st, analyzer.NewTokenizer(), 1.2, 0.75)
	b := NewLocalBackend(r, st, root, 0.8, nil)

	docs, err := b.RetrieveDocuments("lentils cumin", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes/soup.md:L1-4", docs[0].Title)
	assert.Equal(t, "Simmer red lentils with cumin until soft.", docs[0].Content)
}

func TestLocalBackend_NoMatches(t *testing.T) {
	root := t.TempDir()
	st := seedIndex(t, root)
	r := retriever.NewBM25Retriever(st, analyzer.NewTokenizer(), 1.2, 0.75)
	b := NewLocalBackend(r, st, root, 0, nil)

	docs, err := b.RetrieveDocuments("quantum computing", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

type failingRetriever struct{ err error }

func (f failingRetriever) Search(string, int) ([]domain.ScoredChunk, error) {
	return nil, f.err
}

func TestLocalBackend_SearchError(t *testing.T) {
	boom := errors.New("index corrupted")
	b := NewLocalBackend(failingRetriever{err: boom}, memstore.NewMemoryStore(), "", 0, nil)

	_, err := b.RetrieveDocuments("anything", 3)
	assert.ErrorIs(t, err, boom)
}

type fixedRetriever struct{ hits []domain.ScoredChunk }

func (f fixedRetriever) Search(_ string, k int) ([]domain.ScoredChunk, error) {
	if len(f.hits) > k {
		return f.hits[:k], nil
	}
	return f.hits, nil
}

func TestLocalBackend_DedupAndCap(t *testing.T) {
	same := []string{"banana", "bread", "ripe", "flour"}
	hits := []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "a", FileID: "missing", StartLine: 1, EndLine: 5, Tokens: same, Text: "a"}, Score: 3},
		{Chunk: domain.Chunk{ID: "b", FileID: "missing", StartLine: 3, EndLine: 7, Tokens: same, Text: "b"}, Score: 2},
		{Chunk: domain.Chunk{ID: "c", FileID: "missing", StartLine: 9, EndLine: 9, Tokens: []string{"oats"}, Text: "c"}, Score: 1},
		{Chunk: domain.Chunk{ID: "d", FileID: "missing", StartLine: 10, EndLine: 10, Tokens: []string{"chia"}, Text: "d"}, Score: 1},
	}
	b := NewLocalBackend(fixedRetriever{hits: hits}, memstore.NewMemoryStore(), "", 0.8, nil)

	docs, err := b.RetrieveDocuments("banana", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Content)
	assert.Equal(t, "c", docs[1].Content)
	assert.Equal(t, "missing:L9-9", docs[1].Title)
}

func TestLocalBackend_RequiredEnvVars(t *testing.T) {
	b := NewLocalBackend(fixedRetriever{}, memstore.NewMemoryStore(), "", 0, nil)
	assert.Empty(t, b.RequiredEnvVars())
}
