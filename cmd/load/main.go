// Package main provides the load command: bulk-insert transformed CSV files
// into the destination table, replacing it on the first batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"primesquare/internal/config"
	"primesquare/internal/loader"
	"primesquare/internal/logger"
	"primesquare/internal/models"
	"primesquare/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	appendOnly := flag.Bool("append", false, "Append every batch instead of replacing the table first")
	flag.Parse()

	// Load .env when present; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	dsn, err := cfg.DSN()
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

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

	csv := storage.NewCSVStore(cfg.Pipeline.TransformedDir)
	cities := models.DefaultCities()

	fmt.Printf("🚀 Loading %d cities into %s (%s)...\n", len(cities), cfg.Database.Table, cfg.Database.Driver)

	ctx := context.Background()
	failures := 0

	mode := models.Replace
	if *appendOnly {
		mode = models.Append
	}

	for _, city := range cities {
		records, err := csv.Load(city)
		if err != nil {
			log.Error(fmt.Sprintf("❌ No CSV for %s: %v", city, err))

			failures++

			continue
		}

		if err := ldr.Load(ctx, records, mode); err != nil {
			log.Error(fmt.Sprintf("❌ Load failed for %s: %v", city, err))

			failures++

			continue
		}

		fmt.Printf("✅ Loaded %d rows for %s (%s)\n", len(records), city, mode)

		mode = models.Append
	}

	if failures > 0 {
		fmt.Printf("\n⚠️  Loading finished with %d failures\n", failures)
		os.Exit(1)
	}

	fmt.Println("\n🎉 Loading completed for all cities!")
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
