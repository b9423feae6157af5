package memstore

import (
	"fmt"
	"sort"
	"sync"

	"reciperag/internal/domain"
)

// MemoryStore is an in-process port.IndexStore, used for tests and for
// indexing without touching disk.
type MemoryStore struct {
	mu         sync.RWMutex
	files      map[string]domain.SourceFile
	chunks     map[string]domain.Chunk
	fileChunks map[string][]string
	postings   map[string]map[string]int
	stats      domain.Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:      make(map[string]domain.SourceFile),
		chunks:     make(map[string]domain.Chunk),
		fileChunks: make(map[string][]string),
		postings:   make(map[string]map[string]int),
	}
}

func (s *MemoryStore) PutFile(file domain.SourceFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.ID] = file
	return nil
}

func (s *MemoryStore) GetFile(id string) (domain.SourceFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.files[id]
	if !ok {
		return domain.SourceFile{}, fmt.Errorf("file not found: %s", id)
	}
	return file, nil
}

func (s *MemoryStore) DeleteFile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, id)
	return nil
}

func (s *MemoryStore) ListFiles() ([]domain.SourceFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]domain.SourceFile, 0, len(s.files))
	for _, f := range s.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

func (s *MemoryStore) PutChunk(chunk domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.chunks[chunk.ID]; !exists {
		s.fileChunks[chunk.FileID] = append(s.fileChunks[chunk.FileID], chunk.ID)
	}
	s.chunks[chunk.ID] = chunk
	return nil
}

func (s *MemoryStore) GetChunk(id string) (domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return domain.Chunk{}, fmt.Errorf("chunk not found: %s", id)
	}
	return chunk, nil
}

func (s *MemoryStore) GetChunksByFile(fileID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.fileChunks[fileID]
	chunks := make([]domain.Chunk, 0, len(ids))
	for _, id := range ids {
		if chunk, ok := s.chunks[id]; ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func (s *MemoryStore) DeleteChunksByFile(fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.fileChunks[fileID] {
		delete(s.chunks, id)
	}
	delete(s.fileChunks, fileID)
	return nil
}

func (s *MemoryStore) PutPosting(term string, chunkID string, tf int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byChunk, ok := s.postings[term]
	if !ok {
		byChunk = make(map[string]int)
		s.postings[term] = byChunk
	}
	byChunk[chunkID] = tf
	return nil
}

// GetPostings returns postings ordered by chunk ID so scoring is deterministic.
func (s *MemoryStore) GetPostings(term string) ([]domain.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byChunk := s.postings[term]
	postings := make([]domain.Posting, 0, len(byChunk))
	for id, tf := range byChunk {
		postings = append(postings, domain.Posting{ChunkID: id, TF: tf})
	}
	sort.Slice(postings, func(i, j int) bool { return postings[i].ChunkID < postings[j].ChunkID })
	return postings, nil
}

func (s *MemoryStore) DeletePostings(chunkID string, terms []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, term := range terms {
		byChunk, ok := s.postings[term]
		if !ok {
			continue
		}
		delete(byChunk, chunkID)
		if len(byChunk) == 0 {
			delete(s.postings, term)
		}
	}
	return nil
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *MemoryStore) UpdateStats(stats domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
