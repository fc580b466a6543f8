package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"primesquare/internal/logger"
	"primesquare/internal/models"
	"primesquare/internal/storage"
)

type fakeFetcher struct {
	responses map[string][]byte
	errs      map[string]error
	calls     []string
}

func (f *fakeFetcher) FetchListings(_ context.Context, city models.City) ([]byte, error) {
	f.calls = append(f.calls, city.Name)

	if err := f.errs[city.Name]; err != nil {
		return nil, err
	}

	return f.responses[city.Name], nil
}

type loadCall struct {
	rows int
	mode models.WriteMode
}

type fakeLoader struct {
	calls    []loadCall
	failNext bool
}

func (f *fakeLoader) Load(_ context.Context, records []models.Record, mode models.WriteMode) error {
	if f.failNext {
		f.failNext = false

		return errors.New("connection reset")
	}

	f.calls = append(f.calls, loadCall{rows: len(records), mode: mode})

	return nil
}

func newTestPipeline(t *testing.T, fetcher Fetcher, ldr Loader) *Pipeline {
	t.Helper()

	raw := storage.NewRawStore(t.TempDir())
	csv := storage.NewCSVStore(t.TempDir())

	return New(fetcher, raw, csv, ldr, logger.NewLogger("error"))
}

func threeCities() []models.City {
	return []models.City{
		{Name: "San Antonio", State: "TX"},
		{Name: "Houston", State: "TX"},
		{Name: "Dallas", State: "TX"},
	}
}

func TestPipeline_Run_AllCitiesSucceed(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"San Antonio": []byte(`[{"id":"sa1"},{"id":"sa2"}]`),
			"Houston":     []byte(`[{"id":"h1"}]`),
			"Dallas":      []byte(`[{"id":"d1"},{"id":"d2"},{"id":"d3"}]`),
		},
	}
	ldr := &fakeLoader{}

	p := newTestPipeline(t, fetcher, ldr)

	results := p.Run(context.Background(), threeCities())
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	for _, res := range results {
		if res.Failed() {
			t.Errorf("Batch %s failed: %v", res.City, res.Err)
		}
	}

	if results[0].Rows != 2 || results[1].Rows != 1 || results[2].Rows != 3 {
		t.Errorf("Unexpected row counts: %d, %d, %d", results[0].Rows, results[1].Rows, results[2].Rows)
	}

	// First load replaces, the rest append.
	wantModes := []models.WriteMode{models.Replace, models.Append, models.Append}
	for i, call := range ldr.calls {
		if call.mode != wantModes[i] {
			t.Errorf("Load %d used mode %v, want %v", i, call.mode, wantModes[i])
		}
	}
}

func TestPipeline_Run_SecondFetchFailureDoesNotStopRun(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"San Antonio": []byte(`[{"id":"sa1"}]`),
			"Dallas":      []byte(`[{"id":"d1"}]`),
		},
		errs: map[string]error{
			"Houston": errors.New("status 500"),
		},
	}
	ldr := &fakeLoader{}

	p := newTestPipeline(t, fetcher, ldr)

	results := p.Run(context.Background(), threeCities())
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if results[0].Failed() || results[2].Failed() {
		t.Error("Expected first and third batches to succeed")
	}

	if !results[1].Failed() {
		t.Fatal("Expected second batch to fail")
	}

	if results[1].Stage != "fetch" {
		t.Errorf("Expected failure at fetch stage, got %q", results[1].Stage)
	}

	// All three cities were attempted.
	if len(fetcher.calls) != 3 {
		t.Errorf("Expected 3 fetch calls, got %d", len(fetcher.calls))
	}

	// The failed city never reached the loader.
	if len(ldr.calls) != 2 {
		t.Fatalf("Expected 2 load calls, got %d", len(ldr.calls))
	}

	if ldr.calls[0].mode != models.Replace || ldr.calls[1].mode != models.Append {
		t.Errorf("Unexpected load modes: %v, %v", ldr.calls[0].mode, ldr.calls[1].mode)
	}
}

func TestPipeline_Run_FailedFirstCityShiftsReplace(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"Houston": []byte(`[{"id":"h1"}]`),
			"Dallas":  []byte(`[{"id":"d1"}]`),
		},
		errs: map[string]error{
			"San Antonio": errors.New("status 403"),
		},
	}
	ldr := &fakeLoader{}

	p := newTestPipeline(t, fetcher, ldr)

	results := p.Run(context.Background(), threeCities())

	if !results[0].Failed() {
		t.Fatal("Expected first batch to fail")
	}

	// Replace belongs to the first successful load, not the first city.
	if len(ldr.calls) != 2 {
		t.Fatalf("Expected 2 load calls, got %d", len(ldr.calls))
	}

	if ldr.calls[0].mode != models.Replace {
		t.Errorf("Expected second city to replace, got %v", ldr.calls[0].mode)
	}

	if ldr.calls[1].mode != models.Append {
		t.Errorf("Expected third city to append, got %v", ldr.calls[1].mode)
	}
}

func TestPipeline_Run_LoadFailureKeepsReplaceForNextCity(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"San Antonio": []byte(`[{"id":"sa1"}]`),
			"Houston":     []byte(`[{"id":"h1"}]`),
			"Dallas":      []byte(`[{"id":"d1"}]`),
		},
	}
	ldr := &fakeLoader{failNext: true}

	p := newTestPipeline(t, fetcher, ldr)

	results := p.Run(context.Background(), threeCities())

	if !results[0].Failed() || results[0].Stage != "load" {
		t.Fatalf("Expected first batch to fail at load, got %+v", results[0])
	}

	if len(ldr.calls) != 2 {
		t.Fatalf("Expected 2 successful load calls, got %d", len(ldr.calls))
	}

	if ldr.calls[0].mode != models.Replace {
		t.Errorf("Expected replace to shift to second city, got %v", ldr.calls[0].mode)
	}
}

func TestPipeline_Run_EmptyBodyIsReportedWithoutLoading(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"San Antonio": []byte(""),
		},
	}
	ldr := &fakeLoader{}

	p := newTestPipeline(t, fetcher, ldr)

	results := p.Run(context.Background(), []models.City{{Name: "San Antonio", State: "TX"}})

	if !results[0].Failed() {
		t.Fatal("Expected empty body to be recorded as a failed batch")
	}

	if results[0].Stage != "normalize" {
		t.Errorf("Expected failure at normalize stage, got %q", results[0].Stage)
	}

	if len(ldr.calls) != 0 {
		t.Errorf("Expected no load calls, got %d", len(ldr.calls))
	}
}

func TestPipeline_Run_EmptyArrayStillLoads(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"San Antonio": []byte(`[]`),
		},
	}
	ldr := &fakeLoader{}

	p := newTestPipeline(t, fetcher, ldr)

	results := p.Run(context.Background(), []models.City{{Name: "San Antonio", State: "TX"}})

	if results[0].Failed() {
		t.Fatalf("Expected zero listings to succeed, got: %v", results[0].Err)
	}

	if results[0].Rows != 0 {
		t.Errorf("Expected 0 rows, got %d", results[0].Rows)
	}

	if len(ldr.calls) != 1 || ldr.calls[0].rows != 0 || ldr.calls[0].mode != models.Replace {
		t.Errorf("Expected one replace load with 0 rows, got %+v", ldr.calls)
	}
}

func TestPipeline_Run_WritesArtifacts(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"San Antonio": []byte(`[{"id":"sa1","formattedAddress":"123 Main St"}]`),
		},
	}
	ldr := &fakeLoader{}

	rawDir := t.TempDir()
	csvDir := t.TempDir()
	raw := storage.NewRawStore(rawDir)
	csv := storage.NewCSVStore(csvDir)

	p := New(fetcher, raw, csv, ldr, logger.NewLogger("error"))

	city := models.City{Name: "San Antonio", State: "TX"}

	results := p.Run(context.Background(), []models.City{city})
	if results[0].Failed() {
		t.Fatalf("Run failed: %v", results[0].Err)
	}

	if _, err := os.Stat(raw.Path(city)); err != nil {
		t.Errorf("Expected raw snapshot at %s: %v", raw.Path(city), err)
	}

	if _, err := os.Stat(csv.Path(city)); err != nil {
		t.Errorf("Expected CSV artifact at %s: %v", csv.Path(city), err)
	}
}
