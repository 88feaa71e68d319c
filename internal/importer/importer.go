// Package importer orchestrates cube imports: it decodes raw exports with
// the cube package and persists the results. Decoding one cube is all or
// nothing; this layer is where a batch isolates one cube's failure from the
// rest.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/statware/genesis/internal/cube"
	"github.com/statware/genesis/internal/logging"
	"github.com/statware/genesis/internal/store"
)

// Storage is the persistence surface the importer needs.
// Satisfied by *store.Store.
type Storage interface {
	SaveImport(ctx context.Context, rec store.ImportRecord, rawBody []byte, facts []store.FactRow) error
	ListImports(ctx context.Context) ([]store.ImportRecord, error)
	GetImport(ctx context.Context, cubeName string) (store.ImportRecord, []byte, error)
	DeleteImport(ctx context.Context, cubeName string) error
}

// Result is the outcome of one successful cube import.
type Result struct {
	ImportID   uuid.UUID     `json:"importId"`
	CubeName   string        `json:"cubeName"`
	Provenance string        `json:"provenance"`
	Dimensions int           `json:"dimensions"`
	Values     int           `json:"values"`
	Facts      int           `json:"facts"`
	Duration   time.Duration `json:"durationNs"`
}

// BatchEntry is the per-cube outcome inside a batch import.
type BatchEntry struct {
	CubeName string  `json:"cubeName"`
	Result   *Result `json:"result,omitempty"`
	Error    string  `json:"error,omitempty"` // non-empty if this cube failed
}

// Service decodes and persists cube exports.
type Service struct {
	storage Storage
	limiter *Limiter
}

// NewService creates an import service backed by the given storage. A nil
// limiter gets the default concurrency cap.
func NewService(storage Storage, limiter *Limiter) *Service {
	if limiter == nil {
		limiter = NewLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime)
	}
	return &Service{storage: storage, limiter: limiter}
}

// Limiter exposes the import concurrency limiter, used at shutdown to wait
// for in-flight imports.
func (s *Service) Limiter() *Limiter {
	return s.limiter
}

// decoded carries everything one full decode produces.
type decoded struct {
	cube       *cube.Cube
	exported   map[string]any
	dimensions int
	values     int
	facts      []store.FactRow
}

// decodeAll fully materializes one cube: metadata, dimensions, and every
// fact mapping. Any failure is terminal for the cube; nothing partial
// escapes this function.
func decodeAll(name, raw string) (*decoded, error) {
	c, err := cube.New(name, raw)
	if err != nil {
		return nil, err
	}

	exported, err := c.ToMap()
	if err != nil {
		return nil, err
	}

	dims, err := c.Dimensions()
	if err != nil {
		return nil, err
	}
	values := 0
	for _, d := range dims {
		values += len(d.Values())
	}

	facts, err := c.Facts()
	if err != nil {
		return nil, err
	}
	factRows := make([]store.FactRow, 0, len(facts))
	for i, f := range facts {
		mapping, err := f.Mapping()
		if err != nil {
			return nil, err
		}
		factID, _ := mapping["fact_id"].(string)
		payload, err := json.Marshal(mapping)
		if err != nil {
			return nil, fmt.Errorf("encode fact %d of cube %s: %w", i, name, err)
		}
		factRows = append(factRows, store.FactRow{FactID: factID, Payload: payload})
	}

	return &decoded{
		cube:       c,
		exported:   exported,
		dimensions: len(dims),
		values:     values,
		facts:      factRows,
	}, nil
}

// Preview decodes a raw export without persisting anything.
func (s *Service) Preview(ctx context.Context, name, raw string) (map[string]any, error) {
	d, err := decodeAll(name, raw)
	if err != nil {
		return nil, err
	}
	logging.WithFields(ctx, "cube", name).Debug("preview decoded",
		"dimensions", d.dimensions,
		"facts", len(d.facts),
	)
	return d.exported, nil
}

// ImportCube decodes one raw export and persists it. A previous import of
// the same cube name is replaced.
func (s *Service) ImportCube(ctx context.Context, name string, raw []byte) (*Result, error) {
	start := time.Now()
	logger := logging.WithFields(ctx, "cube", name)

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("import slot unavailable", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	d, err := decodeAll(name, string(raw))
	if err != nil {
		logger.Error("cube decode failed", "error", err)
		return nil, err
	}

	rec := store.ImportRecord{
		ID:             uuid.New(),
		CubeName:       name,
		Provenance:     d.cube.Provenance(),
		DimensionCount: d.dimensions,
		FactCount:      len(d.facts),
		ImportedAt:     time.Now().UTC(),
	}
	if err := s.storage.SaveImport(ctx, rec, raw, d.facts); err != nil {
		logger.Error("cube persist failed", "error", err)
		return nil, fmt.Errorf("persist cube %s: %w", name, err)
	}

	result := &Result{
		ImportID:   rec.ID,
		CubeName:   name,
		Provenance: rec.Provenance,
		Dimensions: d.dimensions,
		Values:     d.values,
		Facts:      len(d.facts),
		Duration:   time.Since(start),
	}
	logger.Info("cube imported",
		"import_id", rec.ID.String(),
		"dimensions", result.Dimensions,
		"values", result.Values,
		"facts", result.Facts,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// ImportBatch imports several exports keyed by cube name. One cube's decode
// or persist failure never aborts the others; each entry reports its own
// outcome. Cubes are processed in name order for reproducible logs.
func (s *Service) ImportBatch(ctx context.Context, exports map[string]string) []BatchEntry {
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]BatchEntry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			entries = append(entries, BatchEntry{CubeName: name, Error: err.Error()})
			continue
		}
		result, err := s.ImportCube(ctx, name, []byte(exports[name]))
		if err != nil {
			entries = append(entries, BatchEntry{CubeName: name, Error: err.Error()})
			continue
		}
		entries = append(entries, BatchEntry{CubeName: name, Result: result})
	}
	return entries
}

// GetCube re-decodes a stored cube into its full exported form.
func (s *Service) GetCube(ctx context.Context, name string) (map[string]any, error) {
	rec, rawBody, err := s.storage.GetImport(ctx, name)
	if err != nil {
		return nil, err
	}
	d, err := decodeAll(rec.CubeName, string(rawBody))
	if err != nil {
		return nil, fmt.Errorf("re-decode stored cube %s: %w", name, err)
	}
	return d.exported, nil
}

// ListImports returns the stored import history.
func (s *Service) ListImports(ctx context.Context) ([]store.ImportRecord, error) {
	return s.storage.ListImports(ctx)
}

// DeleteImport removes a stored cube.
func (s *Service) DeleteImport(ctx context.Context, name string) error {
	return s.storage.DeleteImport(ctx, name)
}
