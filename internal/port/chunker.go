package port

import "reciperag/internal/domain"

type Chunker interface {
	Chunk(file domain.SourceFile, content string) ([]domain.Chunk, error)
}
