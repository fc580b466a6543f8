// Package main provides the transform command: normalize saved raw
// snapshots into canonical CSV files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"primesquare/internal/config"
	"primesquare/internal/logger"
	"primesquare/internal/models"
	"primesquare/internal/normalizer"
	"primesquare/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	raw := storage.NewRawStore(cfg.Pipeline.RawDir)
	csv := storage.NewCSVStore(cfg.Pipeline.TransformedDir)
	processor := normalizer.NewProcessor()

	cities := models.DefaultCities()

	fmt.Printf("🚀 Transforming snapshots for %d cities...\n", len(cities))

	failures := 0

	for _, city := range cities {
		body, err := raw.Load(city)
		if err != nil {
			log.Error(fmt.Sprintf("❌ No snapshot for %s: %v", city, err))

			failures++

			continue
		}

		records, err := processor.Decode(body)
		if err != nil {
			if errors.Is(err, normalizer.ErrEmptyInput) {
				log.Warn(fmt.Sprintf("⚠️  Snapshot for %s is empty", city))
			} else {
				log.Error(fmt.Sprintf("❌ Normalize failed for %s: %v", city, err))
			}

			failures++

			continue
		}

		path, err := csv.Save(city, records)
		if err != nil {
			log.Error(fmt.Sprintf("❌ CSV save failed for %s: %v", city, err))

			failures++

			continue
		}

		fmt.Printf("✅ %s: %d records saved to %s\n", city, len(records), path)
	}

	if failures > 0 {
		fmt.Printf("\n⚠️  Transformation finished with %d failures\n", failures)
		os.Exit(1)
	}

	fmt.Println("\n🎉 Transformation completed for all cities!")
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
