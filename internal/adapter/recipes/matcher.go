package recipes

import (
	"fmt"
	"strings"

	"reciperag/internal/domain"
	"reciperag/internal/port"
)

const (
	recipeTitlePrefix = "🥘 "
	fallbackTitle     = "📖 Available Recipes"
)

// Match renders every recipe whose keyword occurs in the lowercased query,
// in catalog order.
func Match(book port.RecipeBook, query string) []domain.Document {
	q := strings.ToLower(query)

	var docs []domain.Document
	for _, keyword := range book.Keywords() {
		if !strings.Contains(q, keyword) {
			continue
		}
		recipe, ok := book.Lookup(keyword)
		if !ok {
			continue
		}
		docs = append(docs, Format(recipe))
	}
	return docs
}

// Format renders a recipe as a document. Instructions are copied verbatim.
func Format(recipe domain.Recipe) domain.Document {
	var b strings.Builder

	fmt.Fprintf(&b, "Recipe for %s\n\n", recipe.Title)
	fmt.Fprintf(&b, "⏱️ Ready in: %d minutes\n", recipe.ReadyInMinutes)
	fmt.Fprintf(&b, "👥 Servings: %d\n\n", recipe.Servings)
	b.WriteString("📝 Ingredients:\n")
	for i, ing := range recipe.Ingredients {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(ing)
	}
	b.WriteString("\n\n👨‍🍳 Instructions:\n")
	b.WriteString(recipe.Instructions)

	return domain.Document{
		Title:   recipeTitlePrefix + recipe.Title,
		Content: b.String(),
	}
}

// Fallback lists the known keywords when a recipe query matched nothing.
func Fallback(book port.RecipeBook) domain.Document {
	return domain.Document{
		Title: fallbackTitle,
		Content: "I don't have a specific recipe that matches your request, but I know recipes for: " +
			strings.Join(book.Keywords(), ", ") + ".\n" +
			"Try asking for one of these recipes!",
	}
}
