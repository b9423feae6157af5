package port

import "reciperag/internal/domain"

// DocumentBackend is a source of documents for a free-text question.
type DocumentBackend interface {
	// RetrieveDocuments returns up to numResults documents, most relevant first.
	RetrieveDocuments(query string, numResults int) ([]domain.Document, error)

	// RequiredEnvVars lists the environment variables the backend needs.
	RequiredEnvVars() []string
}

// ChunkRetriever searches indexed chunks.
type ChunkRetriever interface {
	Search(query string, k int) ([]domain.ScoredChunk, error)
}
