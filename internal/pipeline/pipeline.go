// Package pipeline sequences fetch, normalize, persist, and load per city.
package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"primesquare/internal/logger"
	"primesquare/internal/models"
	"primesquare/internal/normalizer"
	"primesquare/internal/storage"
)

// Fetcher pulls one city's raw listings document.
type Fetcher interface {
	FetchListings(ctx context.Context, city models.City) ([]byte, error)
}

// Loader writes normalized records into the destination table.
type Loader interface {
	Load(ctx context.Context, records []models.Record, mode models.WriteMode) error
}

// Pipeline runs the extract-transform-load sequence city by city.
type Pipeline struct {
	fetcher   Fetcher
	processor *normalizer.Processor
	raw       *storage.RawStore
	csv       *storage.CSVStore
	loader    Loader
	logger    *logger.Logger
}

// New creates a pipeline wiring all stages together.
func New(fetcher Fetcher, raw *storage.RawStore, csv *storage.CSVStore, loader Loader, log *logger.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		processor: normalizer.NewProcessor(),
		raw:       raw,
		csv:       csv,
		loader:    loader,
		logger:    log,
	}
}

// Run processes every city in order and returns one BatchResult per city.
// A city's failure is recorded and the run continues; it never surfaces as
// an error from Run. The first city whose load succeeds replaces the table,
// every load after that appends.
func (p *Pipeline) Run(ctx context.Context, cities []models.City) []models.BatchResult {
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)

	log.Info("starting run", "cities", len(cities))

	mode := models.Replace
	results := make([]models.BatchResult, 0, len(cities))

	for _, city := range cities {
		res := p.runCity(ctx, log, city, mode)
		if !res.Failed() {
			mode = models.Append
		}

		results = append(results, res)
	}

	loaded := 0

	for _, res := range results {
		if !res.Failed() {
			loaded++
		}
	}

	log.Info("run complete", "cities", len(cities), "loaded", loaded, "failed", len(cities)-loaded)

	return results
}

func (p *Pipeline) runCity(ctx context.Context, log *logger.Logger, city models.City, mode models.WriteMode) models.BatchResult {
	clog := log.With("city", city.Name, "state", city.State)
	res := models.BatchResult{City: city, Mode: mode}

	clog.Info("fetching listings")

	body, err := p.fetcher.FetchListings(ctx, city)
	if err != nil {
		return p.fail(clog, res, "fetch", err)
	}

	rawPath, err := p.raw.Save(city, body)
	if err != nil {
		return p.fail(clog, res, "raw", err)
	}

	clog.Debug("raw snapshot written", "path", rawPath)

	records, err := p.processor.Decode(body)
	if err != nil {
		if errors.Is(err, normalizer.ErrEmptyInput) {
			clog.Warn("response carried no document", "error", err)
			res.Stage = "normalize"
			res.Err = err

			return res
		}

		return p.fail(clog, res, "normalize", err)
	}

	if len(records) == 0 {
		clog.Warn("no listings found")
	}

	csvPath, err := p.csv.Save(city, records)
	if err != nil {
		return p.fail(clog, res, "csv", err)
	}

	clog.Debug("CSV written", "path", csvPath, "rows", len(records))

	if err := p.loader.Load(ctx, records, mode); err != nil {
		return p.fail(clog, res, "load", err)
	}

	res.Rows = len(records)

	clog.Info("batch loaded", "rows", res.Rows, "mode", mode.String())

	return res
}

func (p *Pipeline) fail(log *logger.Logger, res models.BatchResult, stage string, err error) models.BatchResult {
	res.Stage = stage
	res.Err = err

	log.Error("stage failed", "stage", stage, "error", err)

	return res
}
