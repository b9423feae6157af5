package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"reciperag/internal/domain"
	"reciperag/internal/port"
	"reciperag/internal/usecase"
)

var (
	queryText      string
	queryNum       int
	queryJSON      bool
	queryNoRecipes bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve documents for a question",
	Long: `Retrieve documents from the configured backend. Cooking questions
also get matching built-in recipes, or a list of the recipes on offer.

Without -q, questions are read from stdin one per line.

Examples:
  reciperag query -q "how do I make banana bread"
  reciperag query -q "lentil soup recipe" -k 3 --json
  cat questions.txt | reciperag query`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "question to retrieve documents for")
	queryCmd.Flags().IntVarP(&queryNum, "num-results", "k", 0, "number of documents (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryNoRecipes, "no-recipes", false, "skip recipe augmentation")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := GetRootDir()
	log := GetLogger()

	b, closeBackend, err := openBackend(cfg, root, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	retriever := b
	if cfg.Recipes.Enabled && !queryNoRecipes {
		book, err := loadRecipeBook(cfg, root)
		if err != nil {
			return err
		}
		retriever = usecase.NewRecipeAugmenter(b, book, log)
	}

	numResults := cfg.Retrieve.NumResults
	if queryNum > 0 {
		numResults = queryNum
	}

	out := cmd.OutOrStdout()
	if queryText != "" {
		return answer(out, retriever, queryText, numResults)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if err := answer(out, retriever, question, numResults); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func answer(out io.Writer, retriever port.DocumentBackend, question string, numResults int) error {
	docs, err := retriever.RetrieveDocuments(question, numResults)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryJSON {
		if docs == nil {
			docs = []domain.Document{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	printDocuments(out, question, docs)
	return nil
}

func printDocuments(out io.Writer, question string, docs []domain.Document) {
	if len(docs) == 0 {
		fmt.Fprintf(out, "No documents found for: %s\n\n", question)
		return
	}
	fmt.Fprintf(out, "Found %d documents for: %s\n\n", len(docs), question)
	for i, d := range docs {
		fmt.Fprintf(out, "--- [%d] %s ---\n", i+1, d.Title)
		fmt.Fprintln(out, d.Content)
		fmt.Fprintln(out)
	}
}
