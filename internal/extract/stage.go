package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/invoice-validator/constants"
	"github.com/joseph-ayodele/invoice-validator/internal/entity"
	"github.com/joseph-ayodele/invoice-validator/internal/llm"
	"github.com/joseph-ayodele/invoice-validator/internal/store"
)

// Config holds the stage parameters.
type Config struct {
	// Workers bounds concurrent model calls. 1 keeps extraction sequential.
	Workers int
}

// Stage walks the invoices directory and turns every supported document into
// line items. A file whose extraction fails is logged and skipped; only an
// unreadable directory fails the stage itself.
type Stage struct {
	cfg       Config
	extractor llm.DocumentExtractor
	artifacts *store.Artifacts
	logger    *slog.Logger
}

func NewStage(cfg Config, extractor llm.DocumentExtractor, artifacts *store.Artifacts, logger *slog.Logger) *Stage {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{
		cfg:       cfg,
		extractor: extractor,
		artifacts: artifacts,
		logger:    logger,
	}
}

// Run extracts line items from every invoice under invoicesDir. The returned
// slice follows sorted filename order regardless of the worker count.
func (s *Stage) Run(ctx context.Context, invoicesDir string) ([]entity.LineItem, error) {
	files, err := listInvoices(invoicesDir)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	s.logger.Info("extract.scan.done", "dir", invoicesDir, "files", len(files))

	perFile := make([][]entity.LineItem, len(files))
	if s.cfg.Workers == 1 {
		for i, name := range files {
			perFile[i] = s.extractFile(ctx, filepath.Join(invoicesDir, name), name)
		}
	} else {
		s.runPool(ctx, invoicesDir, files, perFile)
	}

	var items []entity.LineItem
	for _, rows := range perFile {
		items = append(items, rows...)
	}
	s.logger.Info("extract.done", "files", len(files), "items", len(items))

	if len(items) > 0 && s.artifacts != nil {
		if err := s.artifacts.WriteExtracted(items); err != nil {
			s.logger.Warn("extract.artifact_failed", "error", err)
		}
	}
	return items, nil
}

// runPool fans file indices out to a fixed set of workers. Results land in
// out by index, so concurrency never reorders the output.
func (s *Stage) runPool(ctx context.Context, dir string, files []string, out [][]entity.LineItem) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.logger.Debug("extract.worker.started", "worker_id", workerID)
			for idx := range jobs {
				out[idx] = s.extractFile(ctx, filepath.Join(dir, files[idx]), files[idx])
			}
		}(i + 1)
	}
	for idx := range files {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
}

func (s *Stage) extractFile(ctx context.Context, path, name string) []entity.LineItem {
	fields, err := s.extractor.ExtractLineItems(ctx, path)
	if err != nil {
		s.logger.Warn("extract.file.failed", "file", name, "error", err)
		return nil
	}
	items := make([]entity.LineItem, 0, len(fields))
	for _, f := range fields {
		items = append(items, entity.LineItem{
			ItemDescription:  f.ItemDescription,
			Quantity:         f.Quantity,
			UnitPrice:        f.UnitPrice,
			TotalNonVATValue: f.TotalNonVATValue,
			VATAmount:        f.VATAmount,
			Currency:         f.Currency,
			InvoiceFile:      name,
		})
	}
	return items
}

// listInvoices returns the supported invoice filenames in sorted order.
// Hidden files, subdirectories and unsupported extensions are skipped.
func listInvoices(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(name))]; !ok {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}
