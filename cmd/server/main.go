package main

import (
	"fmt"
	"log"
	"os"

	"github.com/listinglens/backend/config"
	httpDelivery "github.com/listinglens/backend/internal/delivery/http"
	"github.com/listinglens/backend/internal/infrastructure/cache"
	"github.com/listinglens/backend/internal/infrastructure/ebay"
	"github.com/listinglens/backend/internal/infrastructure/imaging"
	"github.com/listinglens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ListingLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	hashCache := cache.NewHashCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	log.Printf("Hash cache: capacity=%d, ttl=%s", cfg.Cache.Capacity, cfg.Cache.TTL)

	fetcher := imaging.NewFetcher(hashCache, cfg.Fetcher)
	log.Printf("Image fetcher: workers=%d, timeout=%s", cfg.Fetcher.Workers, cfg.Fetcher.Timeout)

	pageClient := ebay.NewClient(cfg.Scraper)
	log.Printf("Page scraper: max_pages=%d, timeout=%s", cfg.Scraper.MaxPages, cfg.Scraper.Timeout)

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(
		fetcher,
		usecase.ScoringConfig{
			BaseThreshold:      cfg.Analysis.BaseThreshold,
			RelaxedThreshold:   cfg.Analysis.RelaxedThreshold,
			MinTitleSimilarity: cfg.Analysis.MinTitleSimilarity,
			MaxPriceDifference: cfg.Analysis.MaxPriceDifference,
		},
	)
	log.Printf("Analysis: threshold=%.2f, relaxed=%.2f",
		cfg.Analysis.BaseThreshold, cfg.Analysis.RelaxedThreshold)

	titleService := usecase.NewTitleService(pageClient, cfg.Scraper.MaxPages)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService, titleService)

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
