package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/invoice-validator/internal/llm"
)

// Config for the OpenAI client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
}

// Rasterizer renders the first page of a PDF to a PNG on disk. The cleanup
// func removes the rendered file and its scratch dir.
type Rasterizer interface {
	FirstPagePNG(ctx context.Context, pdfPath string) (string, func(), error)
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	raster     Rasterizer
	itemSchema *jsonschema.Schema
	logger     *slog.Logger
}

// NewClient builds a vision extraction client. The line-item schema is
// compiled once here and reused for every document.
func NewClient(cfg Config, raster Rasterizer, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	itemSchema, err := llm.CompileSchema(llm.BuildLineItemSchema())
	if err != nil {
		return nil, fmt.Errorf("compile line item schema: %w", err)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		raster:     raster,
		itemSchema: itemSchema,
		logger:     logger,
	}, nil
}
