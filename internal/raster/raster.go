package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Config for PDF rasterization.
type Config struct {
	PdftoppmPath string // poppler's pdftoppm binary
	DPI          int
}

// PDFRasterizer renders the first page of a PDF to a PNG image. Only the
// first page matters for invoice reading.
type PDFRasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *PDFRasterizer {
	return NewWithRunner(cfg, execRunner{}, logger)
}

// NewWithRunner is the test seam for stubbing the external command.
func NewWithRunner(cfg Config, r Runner, logger *slog.Logger) *PDFRasterizer {
	if cfg.PdftoppmPath == "" {
		cfg.PdftoppmPath = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRasterizer{cfg: cfg, runner: r, logger: logger}
}

// FirstPagePNG renders page 1 into a scratch dir and returns the image path.
// Call cleanup() to remove the scratch dir once the image has been consumed.
func (p *PDFRasterizer) FirstPagePNG(ctx context.Context, pdfPath string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "iv-pp-*")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			p.logger.Warn("raster.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f 1 -l 1 -r 200 -png <in.pdf> <tmp/page>
	_, errb, err := p.runner.Run(ctx, p.cfg.PdftoppmPath, "-f", "1", "-l", "1", "-r", strconv.Itoa(p.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("pdftoppm failed: %s: %w", truncate(string(errb), 512), err)
	}

	// collect generated pngs (prefix-1.png, prefix-01.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		cleanup()
		return "", func() {}, fmt.Errorf("no pages rendered from %s", filepath.Base(pdfPath))
	}

	p.logger.Debug("raster.first_page.ok", "pdf", filepath.Base(pdfPath), "image", filepath.Base(matches[0]), "dpi", p.cfg.DPI)
	return matches[0], cleanup, nil
}
