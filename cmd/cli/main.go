// cleakr - C memory leak analyzer
//
// cleakr runs clang-tidy on C sources, reconstructs structured leak records
// from the raw diagnostic text, and prints editor-consumable JSON
// diagnostics with LLM-generated fix recommendations.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cleakr/cleakr/internal/cli"
)

func main() {
	// Pick up GEMINI_API_KEY and friends from a local .env, if present.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
