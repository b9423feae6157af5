package recipes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reciperag/internal/domain"
)

func TestBuiltinStore_Keywords(t *testing.T) {
	s := NewBuiltinStore()

	assert.Equal(t, []string{
		"chocolate", "almonds", "apples", "bananas",
		"avocados", "chia", "lentils", "pumpkin",
	}, s.Keywords())
	assert.Equal(t, 8, s.Len())
}

func TestBuiltinStore_Lookup(t *testing.T) {
	s := NewBuiltinStore()

	r, ok := s.Lookup("chocolate")
	require.True(t, ok)
	assert.Equal(t, "Rich Chocolate Brownies", r.Title)
	assert.Equal(t, 45, r.ReadyInMinutes)
	assert.Equal(t, 16, r.Servings)
	require.Len(t, r.Ingredients, 8)
	assert.Equal(t, "1 cup unsalted butter", r.Ingredients[0])
	assert.Equal(t, "1 cup semi-sweet chocolate chips", r.Ingredients[7])

	r, ok = s.Lookup("CHIA")
	require.True(t, ok)
	assert.Equal(t, "Overnight Chia Pudding with Berry Compote", r.Title)

	_, ok = s.Lookup("durian")
	assert.False(t, ok)
}

func TestBuiltinStore_InstructionsKeepSubSteps(t *testing.T) {
	s := NewBuiltinStore()

	r, ok := s.Lookup("avocados")
	require.True(t, ok)
	assert.Contains(t, r.Instructions, "1. For the guacamole:\n   - Cut avocados in half")
	assert.Contains(t, r.Instructions, "\n\n2. For the tortilla chips:")
}

func TestStore_LookupReturnsCopy(t *testing.T) {
	s := NewBuiltinStore()

	r, _ := s.Lookup("apples")
	r.Ingredients[0] = "mutated"

	again, _ := s.Lookup("apples")
	assert.Equal(t, "6 cups sliced apples (Granny Smith or Honeycrisp)", again.Ingredients[0])
}

func TestNewStore_RejectsDuplicates(t *testing.T) {
	_, err := NewStore([]Entry{
		{Keyword: "figs", Recipe: domain.Recipe{Title: "Fig Jam"}},
		{Keyword: "FIGS", Recipe: domain.Recipe{Title: "Fig Tart"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateKeyword)
}

func TestNewStore_RejectsEmptyKeyword(t *testing.T) {
	_, err := NewStore([]Entry{{Keyword: "  ", Recipe: domain.Recipe{Title: "Mystery"}}})
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	content := `
recipes:
  - keyword: Figs
    title: Fig Jam
    ready_in_minutes: 50
    servings: 10
    ingredients:
      - 2 pounds figs
      - 1 cup sugar
    instructions: |-
      1. Chop figs.
      2. Simmer with sugar.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"figs"}, s.Keywords())

	r, ok := s.Lookup("figs")
	require.True(t, ok)
	assert.Equal(t, []string{"2 pounds figs", "1 cup sugar"}, r.Ingredients)
	assert.Equal(t, "1. Chop figs.\n2. Simmer with sugar.", r.Instructions)
}

func TestLoadCatalog_Missing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
