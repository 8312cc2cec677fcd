package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-validator/constants"
	"github.com/joseph-ayodele/invoice-validator/internal/common"
	"github.com/joseph-ayodele/invoice-validator/internal/entity"
	"github.com/joseph-ayodele/invoice-validator/internal/store"
)

// Extractor turns the invoices directory into line items.
type Extractor interface {
	Run(ctx context.Context, invoicesDir string) ([]entity.LineItem, error)
}

// Verifier pairs line items with supporting documents.
type Verifier interface {
	Verify(ctx context.Context, items []entity.LineItem, supportDir string) []entity.VerificationRecord
}

// Converter rewrites line item amounts into the base currency.
type Converter interface {
	Apply(ctx context.Context, items []entity.LineItem) []entity.LineItem
}

// Config holds the project folder layout.
type Config struct {
	InvoicesDir       string
	SupportingDocsDir string
}

// Validator sequences extraction, verification and conversion over one
// project directory. A run moves IDLE -> EXTRACTING -> VERIFYING ->
// CONVERTING -> DONE; the only early exit is ABORTED out of EXTRACTING, which
// yields an empty result pair. Journal writes are best-effort and never stop
// a run.
type Validator struct {
	cfg       Config
	extractor Extractor
	verifier  Verifier
	converter Converter
	journal   store.Journal
	logger    *slog.Logger
}

func NewValidator(cfg Config, extractor Extractor, verifier Verifier, converter Converter, journal store.Journal, logger *slog.Logger) *Validator {
	if cfg.InvoicesDir == "" {
		cfg.InvoicesDir = constants.InvoicesDirName
	}
	if cfg.SupportingDocsDir == "" {
		cfg.SupportingDocsDir = constants.SupportingDocsDirName
	}
	if journal == nil {
		journal = store.NopJournal{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		cfg:       cfg,
		extractor: extractor,
		verifier:  verifier,
		converter: converter,
		journal:   journal,
		logger:    logger,
	}
}

// Run drives one validation pass. Both returned tables are empty when the
// run aborts during extraction; a missing supporting-docs directory only
// degrades verification and never aborts.
func (v *Validator) Run(ctx context.Context) entity.PipelineResult {
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())
	start := time.Now()

	if err := v.journal.StartRun(ctx, runID, start); err != nil {
		v.logger.Warn("pipeline.journal.start_failed", "run_id", runID.String(), "error", err)
	}
	v.logger.Info("pipeline.run.start",
		"run_id", runID.String(),
		"invoices_dir", v.cfg.InvoicesDir,
		"supporting_docs_dir", v.cfg.SupportingDocsDir,
	)

	// 1) Extract line items from every invoice.
	v.transition(ctx, runID, constants.RunStateExtracting, "")
	items, err := v.extractor.Run(ctx, v.cfg.InvoicesDir)
	if err != nil {
		return v.abort(ctx, runID, start, fmt.Sprintf("invoices directory unavailable: %v", err))
	}
	if len(items) == 0 {
		return v.abort(ctx, runID, start, "no line items extracted")
	}

	// 2) Verify against supporting documents.
	v.transition(ctx, runID, constants.RunStateVerifying, "")
	verifications := v.verifier.Verify(ctx, items, v.cfg.SupportingDocsDir)

	// 3) Convert amounts into the base currency.
	v.transition(ctx, runID, constants.RunStateConverting, "")
	converted := v.converter.Apply(ctx, items)

	v.transition(ctx, runID, constants.RunStateDone, "")
	result := entity.PipelineResult{Invoices: converted, Verifications: verifications}
	summary := entity.Summarize(result.Invoices, result.Verifications)
	stats := entity.RunStats{
		InvoiceFiles: countInvoiceFiles(result.Invoices),
		InvoiceItems: len(result.Invoices),
		MatchedItems: summary.ItemsWithMatchingValues,
	}
	v.finish(ctx, runID, constants.RunStateDone, stats, "")

	v.logger.Info("pipeline.run.done",
		"run_id", runID.String(),
		"files", stats.InvoiceFiles,
		"items", stats.InvoiceItems,
		"matched", stats.MatchedItems,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result
}

func (v *Validator) transition(ctx context.Context, runID uuid.UUID, state constants.RunState, note string) {
	v.logger.Info("pipeline.state", "run_id", runID.String(), "state", string(state))
	if err := v.journal.RecordState(ctx, runID, state, note); err != nil {
		v.logger.Warn("pipeline.journal.record_failed",
			"run_id", runID.String(),
			"state", string(state),
			"error", err)
	}
}

func (v *Validator) abort(ctx context.Context, runID uuid.UUID, start time.Time, reason string) entity.PipelineResult {
	v.logger.Error("pipeline.run.aborted",
		"run_id", runID.String(),
		"reason", reason,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	v.transition(ctx, runID, constants.RunStateAborted, reason)
	v.finish(ctx, runID, constants.RunStateAborted, entity.RunStats{}, reason)
	return entity.PipelineResult{}
}

func (v *Validator) finish(ctx context.Context, runID uuid.UUID, state constants.RunState, stats entity.RunStats, note string) {
	if err := v.journal.FinishRun(ctx, runID, state, stats, note); err != nil {
		v.logger.Warn("pipeline.journal.finish_failed", "run_id", runID.String(), "error", err)
	}
}

func countInvoiceFiles(items []entity.LineItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[it.InvoiceFile] = struct{}{}
	}
	return len(seen)
}
