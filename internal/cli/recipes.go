package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"reciperag/internal/adapter/recipes"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes [keyword]",
	Short: "List built-in recipes or show one",
	Long: `Without arguments, lists every recipe keyword with its title.
With a keyword, prints the recipe document exactly as query would.

Examples:
  reciperag recipes
  reciperag recipes lentils`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecipes,
}

func init() {
	rootCmd.AddCommand(recipesCmd)
}

func runRecipes(cmd *cobra.Command, args []string) error {
	book, err := loadRecipeBook(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, e := range book.Entries() {
			fmt.Fprintf(out, "%-12s %s\n", e.Keyword, e.Recipe.Title)
		}
		return nil
	}

	recipe, ok := book.Lookup(args[0])
	if !ok {
		fmt.Fprintf(out, "No recipe for %q. Known keywords: %s\n", args[0], strings.Join(book.Keywords(), ", "))
		return nil
	}

	doc := recipes.Format(recipe)
	fmt.Fprintln(out, doc.Title)
	fmt.Fprintln(out)
	fmt.Fprintln(out, doc.Content)
	return nil
}
