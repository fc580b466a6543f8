// Package main provides the unified pipeline command that fetches,
// normalizes, and loads listings for every configured city.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"primesquare/internal/config"
	"primesquare/internal/fetcher"
	"primesquare/internal/loader"
	"primesquare/internal/logger"
	"primesquare/internal/models"
	"primesquare/internal/pipeline"
	"primesquare/internal/report"
	"primesquare/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	// Load .env when present; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	api, err := config.APIFromEnv()
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	cities := models.DefaultCities()

	fmt.Println("🏠 PrimeSquare Listings Pipeline")
	fmt.Printf("Cities: %d | Database: %s | Table: %s\n", len(cities), cfg.Database.Driver, cfg.Database.Table)
	fmt.Println()

	startTime := time.Now()

	client := fetcher.NewClient(api, cfg.HTTP.Timeout())
	raw := storage.NewRawStore(cfg.Pipeline.RawDir)
	csv := storage.NewCSVStore(cfg.Pipeline.TransformedDir)

	ldr, err := loader.Open(cfg.Database.Driver, dsn, cfg.Database.Table)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to open destination database: %v", err))
		os.Exit(1)
	}

	defer func() {
		if closeErr := ldr.Close(); closeErr != nil {
			log.Error(fmt.Sprintf("⚠️  Failed to close database: %v", closeErr))
		}
	}()

	p := pipeline.New(client, raw, csv, ldr, log)

	results := p.Run(context.Background(), cities)

	fmt.Println("\n✨ Pipeline complete!")
	fmt.Println()
	fmt.Print(report.Render(results))
	fmt.Printf("Total duration: %v\n", time.Since(startTime))
}

// resolveConfig picks the explicit file, then configs/pipeline.yaml, then
// built-in defaults.
func resolveConfig(path string) (*config.Config, error) {
	if path != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", path)

		return config.LoadConfig(path)
	}

	const defaultPath = "configs/pipeline.yaml"
	if _, err := os.Stat(defaultPath); err == nil {
		fmt.Printf("⚙️  Loading default configuration: %s\n", defaultPath)

		return config.LoadConfig(defaultPath)
	}

	fmt.Println("⚙️  Using built-in defaults")

	return config.DefaultConfig(), nil
}
