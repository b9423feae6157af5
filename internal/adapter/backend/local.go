package backend

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"reciperag/internal/adapter/retriever"
	"reciperag/internal/domain"
	"reciperag/internal/logging"
	"reciperag/internal/port"
)

// FileLookup resolves a chunk's file ID to its source file.
type FileLookup interface {
	GetFile(id string) (domain.SourceFile, error)
}

// LocalBackend serves documents from the on-disk BM25 index.
type LocalBackend struct {
	retriever port.ChunkRetriever
	files     FileLookup
	root      string
	dedup     float64
	logger    *zap.Logger
}

func NewLocalBackend(r port.ChunkRetriever, files FileLookup, root string, dedup float64, logger *zap.Logger) *LocalBackend {
	return &LocalBackend{
		retriever: r,
		files:     files,
		root:      root,
		dedup:     dedup,
		logger:    logging.OrNop(logger),
	}
}

// RetrieveDocuments over-fetches so near-duplicate windows can be dropped
// without coming up short.
func (b *LocalBackend) RetrieveDocuments(query string, numResults int) ([]domain.Document, error) {
	if numResults <= 0 {
		return nil, nil
	}

	hits, err := b.retriever.Search(query, numResults*2)
	if err != nil {
		return nil, fmt.Errorf("local search failed: %w", err)
	}
	hits = retriever.Deduplicate(hits, b.dedup)
	if len(hits) > numResults {
		hits = hits[:numResults]
	}

	docs := make([]domain.Document, 0, len(hits))
	for _, h := range hits {
		path := h.Chunk.FileID
		if file, err := b.files.GetFile(h.Chunk.FileID); err == nil {
			path = b.relative(file.Path)
		} else {
			b.logger.Warn("chunk without file", zap.String("chunk_id", h.Chunk.ID), zap.Error(err))
		}

		docs = append(docs, domain.Document{
			Title:   fmt.Sprintf("%s:L%d-%d", path, h.Chunk.StartLine, h.Chunk.EndLine),
			Content: h.Chunk.Text,
		})
	}

	b.logger.Debug("local retrieval", zap.String("query", query), zap.Int("documents", len(docs)))
	return docs, nil
}

// RequiredEnvVars is empty: the local index needs no credentials.
func (b *LocalBackend) RequiredEnvVars() []string {
	return nil
}

func (b *LocalBackend) relative(path string) string {
	if b.root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(b.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
