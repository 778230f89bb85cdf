package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/raine/ecoinventory-bot/internal/config"
	"github.com/raine/ecoinventory-bot/internal/inventory"
	"github.com/raine/ecoinventory-bot/internal/llm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <image-path>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nThe file may be a JPEG or a base64 data URL.\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY - Required\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_MODEL   - Optional, defaults to %s\n", llm.DefaultModel)
		os.Exit(1)
	}

	config.LoadEnvFile()
	cfg := config.FromEnv()
	if cfg.GeminiAPIKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is not set")
		os.Exit(1)
	}

	imageData, err := readImage(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Gemini client: %v\n", err)
		os.Exit(1)
	}

	analysis, err := client.ClassifyImage(ctx, imageData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing image: %v\n", err)
		os.Exit(1)
	}

	p := inventory.NewState().ProductFromScan(analysis.ScanResult(), time.Now())

	fmt.Println("=== ANALYSIS ===")
	fmt.Printf("Name:        %s\n", analysis.Name)
	fmt.Printf("Category:    %s\n", analysis.Category)
	fmt.Printf("Price:       %s\n", inventory.FormatPrice(analysis.EstimatedPrice))
	fmt.Printf("Description: %s\n", analysis.Description)
	fmt.Println()
	fmt.Println("=== PRODUCT ===")
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("SKU:         %s\n", p.SKU)
	fmt.Printf("Summary:     %s\n", p.SummaryLine())
}

func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("data:")) {
		return llm.DecodeBase64Image(string(bytes.TrimSpace(data)))
	}
	return data, nil
}
