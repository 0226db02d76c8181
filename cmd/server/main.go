package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopmind/backend/config"
	httpDelivery "github.com/shopmind/backend/internal/delivery/http"
	"github.com/shopmind/backend/internal/infrastructure/llm"
	"github.com/shopmind/backend/internal/infrastructure/shopify"
	"github.com/shopmind/backend/internal/infrastructure/upstash"
	"github.com/shopmind/backend/internal/usecase"
)

func main() {
	// Load .env for local development; real deployments set env vars directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopMind Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store: %s", cfg.Shopify.StoreDomain)

	// All collaborators are constructed once here and injected; nothing is
	// lazily initialized on first use
	storefrontClient := shopify.NewClient(
		cfg.Shopify.StoreDomain,
		cfg.Shopify.StorefrontAccessToken,
		cfg.Shopify.APIVersion,
	)

	vectorIndex := upstash.NewClient(cfg.Vector.URL, cfg.Vector.Token)

	understander := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: float32(cfg.LLM.Temperature),
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	log.Printf("LLM model: %s", cfg.LLM.Model)

	// Initialize usecase layer
	retrievalService := usecase.NewRetrievalService(vectorIndex, usecase.RetrievalConfig{
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		TopK:                cfg.Retrieval.TopK,
	})
	log.Printf("Retrieval: threshold=%.2f, topK=%d",
		cfg.Retrieval.SimilarityThreshold, cfg.Retrieval.TopK)

	syncService := usecase.NewSyncService(storefrontClient, vectorIndex, usecase.SyncConfig{
		StoreDomain: cfg.Shopify.StoreDomain,
		PageSize:    cfg.Sync.PageSize,
		BatchSize:   cfg.Sync.BatchSize,
	})

	chatService := usecase.NewChatService(understander, retrievalService)
	cartService := usecase.NewCartService(storefrontClient)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(chatService, syncService, cartService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
