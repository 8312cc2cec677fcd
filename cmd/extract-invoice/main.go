package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-validator/internal/common"
	"github.com/joseph-ayodele/invoice-validator/internal/llm/openai"
	"github.com/joseph-ayodele/invoice-validator/internal/raster"
)

// Runs invoice extraction for a single document and prints the line items as
// JSON. Useful for checking prompts and model behavior outside a full run.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract-invoice <invoice-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	start := time.Now()
	items, err := client.ExtractLineItems(ctx, path)
	if err != nil {
		logger.Error("extraction failed",
			"file", path,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}
	logger.Info("extraction ok",
		"file", path,
		"items", len(items),
		"elapsed_ms", time.Since(start).Milliseconds())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}
