package match

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoice-validator/internal/entity"
	"github.com/joseph-ayodele/invoice-validator/internal/store"
)

// Config holds the matching parameters.
type Config struct {
	// Tolerance is the maximum absolute difference (inclusive) between the
	// invoice value and the supporting document value for a row to count as
	// matching. Zero means exact match only.
	Tolerance float64
}

// Matcher pairs invoice line items with supporting documents by filename and
// verifies their non-VAT values. One row in, one record out: a missing
// document, an unreadable document or a bad value degrades the row's verdict,
// never the run.
type Matcher struct {
	cfg       Config
	extractor ValueExtractor
	artifacts *store.Artifacts
	logger    *slog.Logger
}

func NewMatcher(cfg Config, extractor ValueExtractor, artifacts *store.Artifacts, logger *slog.Logger) *Matcher {
	if cfg.Tolerance < 0 {
		cfg.Tolerance = 0.01
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		cfg:       cfg,
		extractor: extractor,
		artifacts: artifacts,
		logger:    logger,
	}
}

// Verify produces one verification record per line item, in input order.
func (m *Matcher) Verify(ctx context.Context, items []entity.LineItem, supportDir string) []entity.VerificationRecord {
	docs := m.listSupportDocs(supportDir)

	records := make([]entity.VerificationRecord, 0, len(items))
	for i := range items {
		records = append(records, m.verifyItem(ctx, &items[i], supportDir, docs))
	}

	m.logger.Info("match.verify.done",
		"items", len(records),
		"matched", countMatched(records),
		"tolerance", m.cfg.Tolerance,
	)

	if m.artifacts != nil {
		if err := m.artifacts.WriteVerifications(records); err != nil {
			m.logger.Warn("match.verify.artifact_failed", "error", err)
		}
	}
	return records
}

// listSupportDocs returns candidate filenames in lexical order. A missing or
// unreadable directory degrades to zero candidates; every row is then
// reported without a supporting document. Subdirectories are not candidates.
func (m *Matcher) listSupportDocs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.logger.Warn("match.support_dir.unavailable", "dir", dir, "error", err)
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func (m *Matcher) verifyItem(ctx context.Context, item *entity.LineItem, dir string, docs []string) entity.VerificationRecord {
	record := entity.VerificationRecord{
		ItemDescription:    item.ItemDescription,
		InvoiceNonVATValue: item.TotalNonVATValue,
		InvoiceFile:        item.InvoiceFile,
	}

	if item.TotalNonVATValue == nil {
		m.logger.Warn("match.item.no_invoice_value",
			"file", item.InvoiceFile,
			"item", item.ItemDescription)
	}

	key := matchKey(item.ItemDescription)
	if key == "" {
		m.logger.Warn("match.item.empty_description", "file", item.InvoiceFile)
		return record
	}

	for _, doc := range docs {
		if !strings.Contains(strings.ToLower(doc), key) {
			continue
		}
		// First filename containing the key wins; remaining candidates are
		// never inspected.
		record.SupportingAttached = true
		record.SupportingFile = doc

		extracted, err := m.extractor.ExtractDocValue(ctx, filepath.Join(dir, doc))
		if err != nil {
			m.logger.Warn("match.doc.extract_failed", "doc", doc, "error", err)
			break
		}
		record.ExtractedNonVATValue = extracted

		if extracted != nil && item.TotalNonVATValue != nil {
			diff := *extracted - *item.TotalNonVATValue
			record.Difference = &diff
			record.NonVATMatch = math.Abs(diff) <= m.cfg.Tolerance
		}
		break
	}
	return record
}

// matchKey normalizes a description the way supporting documents are expected
// to be named: trimmed, lower-cased, spaces as underscores.
func matchKey(text string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "_")
}

func countMatched(records []entity.VerificationRecord) int {
	n := 0
	for i := range records {
		if records[i].NonVATMatch {
			n++
		}
	}
	return n
}
