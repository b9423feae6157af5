package port

import "reciperag/internal/domain"

// IndexStore persists the lexical index behind the local backend.
type IndexStore interface {
	PutFile(file domain.SourceFile) error

	GetFile(id string) (domain.SourceFile, error)

	DeleteFile(id string) error

	ListFiles() ([]domain.SourceFile, error)

	PutChunk(chunk domain.Chunk) error

	GetChunk(id string) (domain.Chunk, error)

	GetChunksByFile(fileID string) ([]domain.Chunk, error)

	DeleteChunksByFile(fileID string) error

	PutPosting(term string, chunkID string, tf int) error

	GetPostings(term string) ([]domain.Posting, error)

	DeletePostings(chunkID string, terms []string) error

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	Close() error
}
