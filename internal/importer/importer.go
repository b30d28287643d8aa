package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/domain"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/store"
)

// Config holds import settings
type Config struct {
	WorkerPoolSize int
	BatchSize      int
}

// Result summarizes an import run
type Result struct {
	Read     int
	Accepted int
	Inserted int64
	Rejected []string
	// FailedBatches counts batches the store refused; their handles were not imported
	FailedBatches int
}

// Importer loads eligible handles into the store in concurrent batches
type Importer struct {
	store store.Store
	fs    adapter.FileSystem
	cfg   Config
}

// New creates an importer
func New(st store.Store, fs adapter.FileSystem, cfg Config) *Importer {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 4
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > domain.MAX_ELIGIBLE_HANDLES_BATCH {
		cfg.BatchSize = 500
	}
	return &Importer{store: st, fs: fs, cfg: cfg}
}

// ImportFile reads a CSV file and imports its handles
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close import file", zap.String("path", path), zap.Error(err))
		}
	}()

	handles, err := ParseCSV(f)
	if err != nil {
		return nil, err
	}

	return i.Import(ctx, handles)
}

// Import normalizes and de-duplicates handles, then inserts them batch by batch.
// Existing handles are skipped by the store.
func (i *Importer) Import(ctx context.Context, raw []string) (*Result, error) {
	valid, rejected := domain.NormalizeHandles(raw)
	result := &Result{
		Read:     len(raw),
		Accepted: len(valid),
		Rejected: rejected,
	}

	for _, r := range rejected {
		logger.WarnCtx(ctx, "Skipping invalid handle", zap.String("handle", r))
	}

	if len(valid) == 0 {
		return result, nil
	}

	pool := pond.NewPool(
		i.cfg.WorkerPoolSize,
		pond.WithContext(ctx),
	)

	var (
		inserted atomic.Int64
		failed   atomic.Int32
		mu       sync.Mutex
		errs     []error
	)

	for start := 0; start < len(valid); start += i.cfg.BatchSize {
		end := min(start+i.cfg.BatchSize, len(valid))
		batch := valid[start:end]

		pool.Submit(func() {
			n, err := i.store.AddEligibleHandles(ctx, batch)
			if err != nil {
				failed.Add(1)
				logger.ErrorCtx(ctx, fmt.Errorf("failed to import batch: %w", err),
					zap.Int("size", len(batch)),
					zap.String("first_handle", batch[0]))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			inserted.Add(n)
		})
	}

	pool.StopAndWait()

	result.Inserted = inserted.Load()
	result.FailedBatches = int(failed.Load())

	logger.InfoCtx(ctx, "Import completed",
		zap.Int("read", result.Read),
		zap.Int("accepted", result.Accepted),
		zap.Int64("inserted", result.Inserted),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("failed_batches", result.FailedBatches))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(errs) > 0 {
		return result, fmt.Errorf("%d of %d batches failed: %w", len(errs), batchCount(len(valid), i.cfg.BatchSize), errors.Join(errs...))
	}

	return result, nil
}

// ParseCSV reads handles from the first column. A first row that names the column
// (contains "handle" or "username") is skipped. Blank rows are ignored.
func ParseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var handles []string
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}

		if len(record) == 0 {
			continue
		}
		cell := strings.TrimSpace(record[0])

		if first {
			first = false
			cell = strings.TrimPrefix(cell, "\ufeff")
			lower := strings.ToLower(cell)
			if strings.Contains(lower, "handle") || strings.Contains(lower, "username") {
				continue
			}
		}

		if cell == "" {
			continue
		}
		handles = append(handles, cell)
	}

	return handles, nil
}

func batchCount(n, size int) int {
	return (n + size - 1) / size
}
