package fx

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-validator/internal/entity"
	"github.com/joseph-ayodele/invoice-validator/internal/store"
)

// ConverterConfig holds the conversion target and the local rate table path.
type ConverterConfig struct {
	// BaseCurrency is the currency every amount is converted into.
	BaseCurrency string
	// RatesFile is the optional local rate CSV. A missing file is not an error.
	RatesFile string
}

// Converter rewrites line item amounts into the base currency. Conversion
// never drops or fails a row: rows it cannot convert keep their original
// amount (or a nil converted value when there is no amount at all).
type Converter struct {
	cfg       ConverterConfig
	fetcher   RateFetcher
	artifacts *store.Artifacts
	logger    *slog.Logger
}

func NewConverter(cfg ConverterConfig, fetcher RateFetcher, artifacts *store.Artifacts, logger *slog.Logger) *Converter {
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		cfg:       cfg,
		fetcher:   fetcher,
		artifacts: artifacts,
		logger:    logger,
	}
}

// Apply returns a converted copy of items; the input slice is left untouched.
// The rate table is reloaded on every call so edits to the CSV take effect
// without a restart.
func (c *Converter) Apply(ctx context.Context, items []entity.LineItem) []entity.LineItem {
	table := LoadTable(c.cfg.RatesFile, c.logger)
	resolver := NewResolver(table, c.fetcher, c.logger)

	out := make([]entity.LineItem, len(items))
	copy(out, items)
	for i := range out {
		c.convertRow(ctx, resolver, &out[i])
	}

	c.logger.Info("fx.convert.done", "items", len(out), "base_currency", c.cfg.BaseCurrency)

	if c.artifacts != nil {
		if err := c.artifacts.WriteConverted(out); err != nil {
			c.logger.Warn("fx.convert.artifact_failed", "error", err)
		}
	}
	return out
}

func (c *Converter) convertRow(ctx context.Context, resolver *Resolver, item *entity.LineItem) {
	if item.TotalNonVATValue == nil {
		c.logger.Warn("fx.convert.no_amount",
			"file", item.InvoiceFile,
			"item", item.ItemDescription)
		item.ConvertedNonVATValue = nil
		return
	}
	amount := *item.TotalNonVATValue

	currency := strings.TrimSpace(item.Currency)
	if currency == "" {
		c.logger.Warn("fx.convert.missing_currency",
			"file", item.InvoiceFile,
			"item", item.ItemDescription)
		item.ConvertedNonVATValue = &amount
		return
	}
	if strings.EqualFold(currency, c.cfg.BaseCurrency) {
		item.ConvertedNonVATValue = &amount
		return
	}

	converted := amount * resolver.Rate(ctx, currency, c.cfg.BaseCurrency)
	item.ConvertedNonVATValue = &converted
}
