package recipes

import "strings"

// TriggerTerms mark a query as recipe-related when contained anywhere in it.
var TriggerTerms = []string{
	"recipe",
	"cook",
	"make",
	"prepare",
	"how to",
	"ingredients",
	"instructions",
	"bake",
	"roast",
}

// IsRecipeQuery reports whether the lowercased query contains a trigger term.
// Containment is substring based, so "bakery" counts as "bake".
func IsRecipeQuery(query string) bool {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return false
	}
	for _, term := range TriggerTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}
