package recipes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"reciperag/internal/domain"
)

//go:embed catalog.yaml
var builtinCatalog []byte

var (
	ErrDuplicateKeyword = errors.New("duplicate recipe keyword")
	ErrEmptyKeyword     = errors.New("empty recipe keyword")
)

// Entry pairs a recipe with the keyword that identifies it.
type Entry struct {
	Keyword string
	Recipe  domain.Recipe
}

// Store is an immutable, ordered keyword -> recipe mapping.
type Store struct {
	entries []Entry
	index   map[string]int
}

type catalogFile struct {
	Recipes []catalogEntry `yaml:"recipes"`
}

type catalogEntry struct {
	Keyword       string `yaml:"keyword"`
	domain.Recipe `yaml:",inline"`
}

// NewBuiltinStore returns the store backed by the embedded catalog.
func NewBuiltinStore() *Store {
	s, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("recipes: invalid built-in catalog: %v", err))
	}
	return s
}

// LoadCatalog reads a YAML recipe catalog from disk.
func LoadCatalog(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a store from YAML catalog bytes.
func ParseCatalog(data []byte) (*Store, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse recipe catalog: %w", err)
	}

	entries := make([]Entry, 0, len(file.Recipes))
	for _, e := range file.Recipes {
		entries = append(entries, Entry{Keyword: e.Keyword, Recipe: e.Recipe})
	}
	return NewStore(entries)
}

// NewStore builds a store from entries, keeping their order. Keywords are
// lowercased since queries are matched in lowercase.
func NewStore(entries []Entry) (*Store, error) {
	s := &Store{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		keyword := strings.ToLower(strings.TrimSpace(e.Keyword))
		if keyword == "" {
			return nil, fmt.Errorf("recipe %q: %w", e.Recipe.Title, ErrEmptyKeyword)
		}
		if _, exists := s.index[keyword]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKeyword, keyword)
		}

		recipe := e.Recipe
		recipe.Ingredients = append([]string(nil), e.Recipe.Ingredients...)

		s.index[keyword] = len(s.entries)
		s.entries = append(s.entries, Entry{Keyword: keyword, Recipe: recipe})
	}

	return s, nil
}

// Lookup returns the recipe for keyword. A miss is reported with false.
func (s *Store) Lookup(keyword string) (domain.Recipe, bool) {
	i, ok := s.index[strings.ToLower(keyword)]
	if !ok {
		return domain.Recipe{}, false
	}
	return copyRecipe(s.entries[i].Recipe), true
}

func (s *Store) Keywords() []string {
	keywords := make([]string, len(s.entries))
	for i, e := range s.entries {
		keywords[i] = e.Keyword
	}
	return keywords
}

// Entries returns a copy of the catalog in order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Keyword: e.Keyword, Recipe: copyRecipe(e.Recipe)}
	}
	return out
}

func (s *Store) Len() int {
	return len(s.entries)
}

func copyRecipe(r domain.Recipe) domain.Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	return r
}
