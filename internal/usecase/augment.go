package usecase

import (
	"go.uber.org/zap"
	"reciperag/internal/adapter/recipes"
	"reciperag/internal/domain"
	"reciperag/internal/logging"
	"reciperag/internal/port"
)

// DefaultNumResults is used when a caller asks for zero or fewer results.
const DefaultNumResults = 5

// RecipeAugmenter merges backend documents with built-in recipes for
// recipe-related questions. It holds no per-call state and is safe for
// concurrent use as long as the backend is.
type RecipeAugmenter struct {
	backend port.DocumentBackend
	book    port.RecipeBook
	logger  *zap.Logger
}

// NewRecipeAugmenter creates a new recipe augmenter.
func NewRecipeAugmenter(backend port.DocumentBackend, book port.RecipeBook, logger *zap.Logger) *RecipeAugmenter {
	return &RecipeAugmenter{
		backend: backend,
		book:    book,
		logger:  logging.OrNop(logger),
	}
}

// RetrieveDocuments returns the backend's documents followed by matching
// recipes (or the available-recipes notice), cut to numResults. Backend
// errors are returned as is.
func (a *RecipeAugmenter) RetrieveDocuments(question string, numResults int) ([]domain.Document, error) {
	if numResults <= 0 {
		numResults = DefaultNumResults
	}

	docs, err := a.backend.RetrieveDocuments(question, numResults)
	if err != nil {
		return nil, err
	}

	results := make([]domain.Document, 0, len(docs)+1)
	results = append(results, docs...)

	if recipes.IsRecipeQuery(question) {
		matches := recipes.Match(a.book, question)
		if len(matches) > 0 {
			results = append(results, matches...)
		} else {
			results = append(results, recipes.Fallback(a.book))
		}
		a.logger.Debug("recipe query",
			zap.Int("backend_docs", len(docs)),
			zap.Int("recipe_matches", len(matches)),
		)
	}

	if len(results) > numResults {
		a.logger.Debug("truncating results",
			zap.Int("total", len(results)),
			zap.Int("num_results", numResults),
		)
		results = results[:numResults]
	}

	return results, nil
}

// RequiredEnvVars returns the backend's requirements unchanged.
func (a *RecipeAugmenter) RequiredEnvVars() []string {
	return a.backend.RequiredEnvVars()
}
