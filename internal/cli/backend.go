package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"reciperag/config"
	"reciperag/internal/adapter/analyzer"
	"reciperag/internal/adapter/backend"
	"reciperag/internal/adapter/cache"
	"reciperag/internal/adapter/recipes"
	"reciperag/internal/adapter/retriever"
	"reciperag/internal/adapter/store"
	"reciperag/internal/port"
)

// ErrNoIndex is returned when the local backend is selected but nothing has
// been indexed yet.
var ErrNoIndex = errors.New("no index found")

// openBackend builds the configured document backend, wrapped in the query
// cache when enabled. The returned close func is never nil.
func openBackend(cfg *config.Config, root string, logger *zap.Logger) (port.DocumentBackend, func() error, error) {
	noop := func() error { return nil }

	var (
		b       port.DocumentBackend
		closeFn = noop
	)

	switch cfg.Backend.Provider {
	case "local":
		dbPath := config.IndexDBPath(root)
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, noop, fmt.Errorf("%w in %s: run 'reciperag index' first", ErrNoIndex, root)
		}

		st, err := store.NewBoltStore(dbPath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open index: %w", err)
		}
		bm25 := retriever.NewBM25Retriever(st, analyzer.NewTokenizer(), cfg.Index.K1, cfg.Index.B)
		b = backend.NewLocalBackend(bm25, st, root, cfg.Retrieve.DedupJaccard, logger)
		closeFn = st.Close

	case "vectorize":
		vb, err := backend.NewVectorizeBackend(cfg.Backend.Vectorize, logger)
		if err != nil {
			return nil, noop, err
		}
		b = vb

	default:
		return nil, noop, fmt.Errorf("unsupported backend provider: %s", cfg.Backend.Provider)
	}

	if cfg.Retrieve.CacheSize > 0 {
		b = cache.NewCachedBackend(b, cache.NewQueryCache(cfg.Retrieve.CacheSize, cfg.Retrieve.CacheTTL), logger)
	}
	return b, closeFn, nil
}

// requiredEnvVars lists what the configured backend reads from the
// environment without constructing it.
func requiredEnvVars(cfg *config.Config) []string {
	if cfg.Backend.Provider == "vectorize" {
		return backend.VectorizeEnvVars(cfg.Backend.Vectorize)
	}
	return nil
}

// loadRecipeBook resolves a relative catalog path against root.
func loadRecipeBook(cfg *config.Config, root string) (*recipes.Store, error) {
	if cfg.Recipes.Catalog == "" {
		return recipes.NewBuiltinStore(), nil
	}
	path := cfg.Recipes.Catalog
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	book, err := recipes.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}
	return book, nil
}
