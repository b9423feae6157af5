package main

import "reciperag/internal/cli"

func main() {
	cli.Execute()
}
