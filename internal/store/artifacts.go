package store

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joseph-ayodele/invoice-validator/constants"
	"github.com/joseph-ayodele/invoice-validator/internal/entity"
)

// Artifacts persists the intermediate CSV tables under the data directory.
// Files are overwritten on every run; there is no versioning. Write failures
// are returned for the caller to log, they never stop a run.
type Artifacts struct {
	dir    string
	logger *slog.Logger
}

func NewArtifacts(dir string, logger *slog.Logger) *Artifacts {
	if logger == nil {
		logger = slog.Default()
	}
	return &Artifacts{dir: dir, logger: logger}
}

var invoiceHeader = []string{
	"item_description", "quantity", "unit_price",
	"total_non_vat_value", "vat_amount", "currency", "invoice_file",
}

var verificationHeader = []string{
	"item_description", "invoice_non_vat_value", "supporting_attached",
	"supporting_file", "extracted_non_vat_value", "difference",
	"non_vat_match", "invoice_file",
}

// WriteExtracted saves the extraction stage output.
func (a *Artifacts) WriteExtracted(items []entity.LineItem) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, invoiceRow(it))
	}
	return a.write(constants.ExtractedCSVName, invoiceHeader, rows)
}

// WriteConverted saves the conversion stage output: the invoice columns plus
// the converted value.
func (a *Artifacts) WriteConverted(items []entity.LineItem) error {
	header := append(append(make([]string, 0, len(invoiceHeader)+1), invoiceHeader...), "converted_non_vat_value")
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, append(invoiceRow(it), formatOptional(it.ConvertedNonVATValue)))
	}
	return a.write(constants.ConvertedCSVName, header, rows)
}

// WriteVerifications saves the matching stage output.
func (a *Artifacts) WriteVerifications(records []entity.VerificationRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ItemDescription,
			formatOptional(rec.InvoiceNonVATValue),
			strconv.FormatBool(rec.SupportingAttached),
			rec.SupportingFile,
			formatOptional(rec.ExtractedNonVATValue),
			formatOptional(rec.Difference),
			strconv.FormatBool(rec.NonVATMatch),
			rec.InvoiceFile,
		})
	}
	return a.write(constants.VerificationCSVName, verificationHeader, rows)
}

func invoiceRow(it entity.LineItem) []string {
	return []string{
		it.ItemDescription,
		formatOptional(it.Quantity),
		formatOptional(it.UnitPrice),
		formatOptional(it.TotalNonVATValue),
		formatOptional(it.VATAmount),
		it.Currency,
		it.InvoiceFile,
	}
}

func (a *Artifacts) write(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(a.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header of %s: %w", name, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row of %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	a.logger.Info("store.artifact.saved", "path", path, "rows", len(rows))
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
