// Package main provides the extract command: fetch raw listings for each
// city and save the JSON snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"primesquare/internal/config"
	"primesquare/internal/fetcher"
	"primesquare/internal/logger"
	"primesquare/internal/models"
	"primesquare/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	cityFlag := flag.String("city", "", "Fetch a single city instead of the full table (requires -state)")
	stateFlag := flag.String("state", "", "Two-letter state code for -city")
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

	cities := models.DefaultCities()

	if *cityFlag != "" {
		if *stateFlag == "" {
			fmt.Println("❌ -city requires -state")
			flag.PrintDefaults()
			os.Exit(1)
		}

		cities = []models.City{{Name: *cityFlag, State: *stateFlag}}
	}

	client := fetcher.NewClient(api, cfg.HTTP.Timeout())
	raw := storage.NewRawStore(cfg.Pipeline.RawDir)

	fmt.Printf("🚀 Extracting listings for %d cities...\n", len(cities))

	ctx := context.Background()
	failures := 0

	for _, city := range cities {
		fmt.Printf("⏳ Fetching properties data for %s\n", city)

		body, err := client.FetchListings(ctx, city)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Fetch failed for %s: %v", city, err))

			failures++

			continue
		}

		path, err := raw.Save(city, body)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Save failed for %s: %v", city, err))

			failures++

			continue
		}

		fmt.Printf("✅ Saved %d bytes to %s\n", len(body), path)
	}

	if failures > 0 {
		fmt.Printf("\n⚠️  Extraction finished with %d failures\n", failures)
		os.Exit(1)
	}

	fmt.Printf("\n🎉 Extraction completed for all %d cities!\n", len(cities))
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
