package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-validator/constants"
	"github.com/joseph-ayodele/invoice-validator/internal/common"
	"github.com/joseph-ayodele/invoice-validator/internal/entity"
	"github.com/joseph-ayodele/invoice-validator/internal/extract"
	"github.com/joseph-ayodele/invoice-validator/internal/fx"
	"github.com/joseph-ayodele/invoice-validator/internal/llm/openai"
	"github.com/joseph-ayodele/invoice-validator/internal/match"
	"github.com/joseph-ayodele/invoice-validator/internal/pipeline"
	"github.com/joseph-ayodele/invoice-validator/internal/raster"
	"github.com/joseph-ayodele/invoice-validator/internal/report"
	"github.com/joseph-ayodele/invoice-validator/internal/store"
)

// Runs the whole validation pass against the fixed project layout:
// invoices/ and supporting_docs/ as inputs, everything else under data/.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// .env is optional; explicit environment variables always win.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(constants.DataDirName, 0o755); err != nil {
		logger.Error("create data directory", "dir", constants.DataDirName, "error", err)
		os.Exit(1)
	}

	artifacts := store.NewArtifacts(constants.DataDirName, logger)

	var journal store.Journal = store.NopJournal{}
	if j, err := store.OpenJournal(ctx, filepath.Join(constants.DataDirName, constants.JournalFileName), logger); err != nil {
		logger.Warn("run journal unavailable", "error", err)
	} else {
		journal = j
		defer j.Close()
	}

	rasterizer := raster.New(raster.Config{
		PdftoppmPath: cfg.Raster.PdftoppmPath,
		DPI:          cfg.Raster.DPI,
	}, logger)

	client, err := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, rasterizer, logger)
	if err != nil {
		logger.Error("build openai client", "error", err)
		os.Exit(1)
	}

	stage := extract.NewStage(extract.Config{Workers: cfg.Extract.Workers}, client, artifacts, logger)
	matcher := match.NewMatcher(match.Config{Tolerance: cfg.Match.Tolerance}, client, artifacts, logger)
	fetcher := fx.NewRemoteClient(cfg.FX.APIURL, cfg.FX.APITimeout, logger)
	converter := fx.NewConverter(fx.ConverterConfig{
		BaseCurrency: cfg.FX.BaseCurrency,
		RatesFile:    cfg.FX.RatesFile,
	}, fetcher, artifacts, logger)

	validator := pipeline.NewValidator(pipeline.Config{
		InvoicesDir:       constants.InvoicesDirName,
		SupportingDocsDir: constants.SupportingDocsDirName,
	}, stage, matcher, converter, journal, logger)

	result := validator.Run(ctx)
	if result.Empty() {
		logger.Error("no invoice data extracted, report not generated")
		os.Exit(1)
	}

	summary := entity.Summarize(result.Invoices, result.Verifications)
	workbook, err := report.NewBuilder(logger).BuildWorkbook(result.Invoices, result.Verifications, summary)
	if err != nil {
		logger.Error("build report", "error", err)
		os.Exit(1)
	}

	outputPath := filepath.Join(constants.DataDirName, constants.ReportFileName)
	if err := os.WriteFile(outputPath, workbook, 0o644); err != nil {
		logger.Error("write report", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("validation report saved",
		"path", outputPath,
		"items", summary.TotalItemsInInvoice,
		"matched", summary.ItemsWithMatchingValues,
		"missing_docs", summary.ItemsMissingSupportingDocs,
	)
}
