package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	"reciperag/internal/domain"
	"reciperag/internal/logging"
	"reciperag/internal/port"
)

// ProgressFunc is called after each file is processed.
type ProgressFunc func(processed, total int, path string)

// IndexUseCase builds and refreshes the lexical index behind the local backend.
type IndexUseCase struct {
	store   port.IndexStore
	walker  port.FileWalker
	reader  port.FileReader
	chunker port.Chunker
	logger  *zap.Logger
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	store port.IndexStore,
	walker port.FileWalker,
	reader port.FileReader,
	chunker port.Chunker,
	logger *zap.Logger,
) *IndexUseCase {
	return &IndexUseCase{
		store:   store,
		walker:  walker,
		reader:  reader,
		chunker: chunker,
		logger:  logging.OrNop(logger),
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	FilesDeleted int
	TotalChunks  int
	Errors       []string
}

// Index walks root and indexes new or modified files, skipping unchanged
// ones and dropping files that disappeared. Per-file failures are collected
// in the result rather than aborting the run.
func (u *IndexUseCase) Index(root string, progress ProgressFunc) (*IndexResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existing, err := u.store.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed files: %w", err)
	}
	byPath := make(map[string]domain.SourceFile, len(existing))
	for _, f := range existing {
		byPath[f.Path] = f
	}

	result := &IndexResult{}
	seen := make(map[string]bool, len(files))

	for i, info := range files {
		seen[info.Path] = true

		if old, ok := byPath[info.Path]; ok {
			if old.ModTime.Unix() >= info.ModTime {
				result.FilesSkipped++
				u.report(progress, i+1, len(files), info.Path)
				continue
			}
			if err := u.removeFile(old.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to remove stale data for %s: %v", info.Path, err))
			}
		}

		if err := u.indexFile(info); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to index %s: %v", info.Path, err))
		} else {
			result.FilesIndexed++
		}
		u.report(progress, i+1, len(files), info.Path)
	}

	for path, f := range byPath {
		if seen[path] {
			continue
		}
		if err := u.removeFile(f.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	stats, err := u.recomputeStats()
	if err != nil {
		return nil, err
	}
	result.TotalChunks = stats.TotalChunks

	u.logger.Info("index updated",
		zap.Int("indexed", result.FilesIndexed),
		zap.Int("skipped", result.FilesSkipped),
		zap.Int("deleted", result.FilesDeleted),
		zap.Int("chunks", stats.TotalChunks),
	)
	return result, nil
}

func (u *IndexUseCase) report(progress ProgressFunc, processed, total int, path string) {
	if progress != nil {
		progress(processed, total, path)
	}
}

func (u *IndexUseCase) indexFile(info port.FileInfo) error {
	content, err := u.reader.ReadFile(info.Path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	file := domain.SourceFile{
		ID:      fileID(info.Path),
		Path:    info.Path,
		ModTime: time.Unix(info.ModTime, 0),
	}

	chunks, err := u.chunker.Chunk(file, content)
	if err != nil {
		return fmt.Errorf("failed to chunk content: %w", err)
	}

	for _, chunk := range chunks {
		if err := u.store.PutChunk(chunk); err != nil {
			return fmt.Errorf("failed to store chunk: %w", err)
		}

		tf := make(map[string]int)
		for _, token := range chunk.Tokens {
			tf[token]++
		}
		for term, n := range tf {
			if err := u.store.PutPosting(term, chunk.ID, n); err != nil {
				return fmt.Errorf("failed to store posting: %w", err)
			}
		}
	}

	// Written last so an interrupted file is retried on the next run.
	if err := u.store.PutFile(file); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

func (u *IndexUseCase) removeFile(id string) error {
	chunks, err := u.store.GetChunksByFile(id)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		terms := make([]string, 0, len(chunk.Tokens))
		seen := make(map[string]struct{}, len(chunk.Tokens))
		for _, t := range chunk.Tokens {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				terms = append(terms, t)
			}
		}
		if err := u.store.DeletePostings(chunk.ID, terms); err != nil {
			return err
		}
	}

	if err := u.store.DeleteChunksByFile(id); err != nil {
		return err
	}
	return u.store.DeleteFile(id)
}

func (u *IndexUseCase) recomputeStats() (domain.Stats, error) {
	files, err := u.store.ListFiles()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to list indexed files: %w", err)
	}

	stats := domain.Stats{TotalFiles: len(files)}
	totalLen := 0
	for _, f := range files {
		chunks, err := u.store.GetChunksByFile(f.ID)
		if err != nil {
			return domain.Stats{}, err
		}
		stats.TotalChunks += len(chunks)
		for _, c := range chunks {
			totalLen += len(c.Tokens)
		}
	}
	if stats.TotalChunks > 0 {
		stats.AvgChunkLen = float64(totalLen) / float64(stats.TotalChunks)
	}

	if err := u.store.UpdateStats(stats); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to update stats: %w", err)
	}
	return stats, nil
}

func fileID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
