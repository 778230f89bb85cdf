package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/raine/ecoinventory-bot/internal/config"
	"github.com/raine/ecoinventory-bot/internal/inventory"
	"github.com/raine/ecoinventory-bot/internal/llm"
)

func main() {
	promptOnly := flag.Bool("prompt", false, "print the prompt without calling the model")
	flag.Parse()

	products := inventory.NewSeededState(time.Now()).Products()

	if *promptOnly {
		fmt.Println(llm.BuildInsightsPrompt(products))
		return
	}

	config.LoadEnvFile()
	cfg := config.FromEnv()
	if cfg.GeminiAPIKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is not set")
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Gemini client: %v\n", err)
		os.Exit(1)
	}

	text, err := client.GenerateInsights(ctx, products)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating insights: %v\n", err)
		os.Exit(1)
	}
	if text == "" {
		fmt.Println("(empty response)")
		return
	}
	fmt.Println(text)
}
