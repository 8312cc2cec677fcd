package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-validator/internal/common"
	"github.com/joseph-ayodele/invoice-validator/internal/fx"
)

// Resolves one exchange rate through the full chain (local table, remote
// API, identity fallback) and prints it. Logs go to stderr so the rate on
// stdout stays script-friendly.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) != 3 {
		logger.Error("usage", "cmd", "fxrate FROM TO")
		os.Exit(2)
	}
	from, to := os.Args[1], os.Args[2]

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	table := fx.LoadTable(cfg.FX.RatesFile, logger)
	fetcher := fx.NewRemoteClient(cfg.FX.APIURL, cfg.FX.APITimeout, logger)
	resolver := fx.NewResolver(table, fetcher, logger)

	rate := resolver.Rate(ctx, from, to)
	fmt.Println(strconv.FormatFloat(rate, 'f', -1, 64))
}
