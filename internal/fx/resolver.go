package fx

import (
	"context"
	"log/slog"
	"strings"
)

// Resolver resolves exchange rates through a three-step chain: local table,
// remote API (cached per base currency), identity fallback. Rate never fails;
// every fallback to 1.0 is logged so identity conversions stay auditable.
//
// A Resolver is built per conversion run. The remote cache keeps one entry per
// base currency, and a failed fetch caches an empty map so a dead endpoint is
// hit at most once per base per run.
type Resolver struct {
	table   Table
	fetcher RateFetcher
	cache   map[string]map[string]float64
	logger  *slog.Logger
}

func NewResolver(table Table, fetcher RateFetcher, logger *slog.Logger) *Resolver {
	if table == nil {
		table = Table{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		table:   table,
		fetcher: fetcher,
		cache:   make(map[string]map[string]float64),
		logger:  logger,
	}
}

// Rate returns the from->to rate, or 1.0 when no source can supply one.
// Currency codes are compared case-insensitively.
func (r *Resolver) Rate(ctx context.Context, from, to string) float64 {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		r.logger.Warn("fx.rate.empty_currency", "from", from, "to", to, "rate", 1.0)
		return 1.0
	}

	if rate, ok := r.table[Pair{From: from, To: to}]; ok {
		return rate
	}

	quotes, ok := r.cache[from]
	if !ok {
		quotes = r.fetchQuotes(ctx, from)
		r.cache[from] = quotes // empty on failure, so a dead endpoint is not retried
	}
	if rate, ok := quotes[to]; ok {
		return rate
	}

	r.logger.Warn("fx.rate.fallback", "from", from, "to", to, "rate", 1.0)
	return 1.0
}

func (r *Resolver) fetchQuotes(ctx context.Context, base string) map[string]float64 {
	if r.fetcher == nil {
		return map[string]float64{}
	}
	quotes, err := r.fetcher.Latest(ctx, base)
	if err != nil {
		r.logger.Warn("fx.rate.remote_failed", "base", base, "error", err)
		return map[string]float64{}
	}
	if quotes == nil {
		quotes = map[string]float64{}
	}
	return quotes
}
