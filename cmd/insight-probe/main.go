package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/services"
)

// insight-probe checks the model server and, given a paper path, runs the
// same extraction the background job does.
func main() {
	cfg, _ := config.Load()
	fmt.Printf("Testing Ollama connection at %s (%s)...\n", cfg.LLM.BaseURL, cfg.LLM.Model)

	llmService := services.NewLLMService(cfg.LLM)
	ctx := context.Background()

	fmt.Println("1. Testing health check...")
	if err := llmService.CheckLLMHealth(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
	} else {
		fmt.Println("✅ Health check passed")
	}

	fmt.Println("2. Testing available models...")
	availableModels, err := llmService.GetAvailableModels(ctx)
	if err != nil {
		log.Printf("Failed to get models: %v", err)
	} else {
		fmt.Printf("✅ Available models: %v\n", availableModels)
	}

	if len(os.Args) < 2 {
		fmt.Println("Pass a .pdf, .docx or .txt path to test insight extraction.")
		return
	}

	fmt.Printf("3. Extracting insights from %s...\n", os.Args[1])
	startTime := time.Now()
	insights, err := services.NewInsightService(llmService).Extract(ctx, os.Args[1])
	elapsed := time.Since(startTime)
	if err != nil {
		log.Fatalf("Extraction failed after %v: %v", elapsed, err)
	}

	fmt.Printf("✅ %d insights in %v\n", len(insights), elapsed)
	for _, insight := range insights {
		fmt.Printf("   • %s\n", insight)
	}
}
