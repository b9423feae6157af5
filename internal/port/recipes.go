package port

import "reciperag/internal/domain"

// RecipeBook is a read-only keyword to recipe mapping.
type RecipeBook interface {
	Lookup(keyword string) (domain.Recipe, bool)

	// Keywords returns every keyword in catalog order.
	Keywords() []string
}
