package report

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-validator/internal/entity"
)

const (
	itemsSheet        = "Extracted Line Items"
	verificationSheet = "Verification Results"
	summarySheet      = "Summary"
)

// Builder renders the validation workbook as XLSX bytes. Writing the file is
// the caller's job.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// BuildWorkbook returns a three-sheet workbook: the extracted line items, the
// verification results and a single KPI row.
func (b *Builder) BuildWorkbook(invoices []entity.LineItem, verifications []entity.VerificationRecord, summary entity.Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()

	if err := writeSheet(f, itemsSheet, invoiceSheetData(invoices)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, verificationSheet, verificationSheetData(verifications)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, summarySheet, summarySheetData(summary)); err != nil {
		return nil, err
	}

	// Drop the default sheet so the workbook holds exactly our three.
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(itemsSheet); err == nil {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	b.logger.Info("report.xlsx.ok",
		"items", len(invoices),
		"verifications", len(verifications),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

type sheetData struct {
	header []string
	rows   [][]any
}

func writeSheet(f *excelize.File, sheet string, data sheetData) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}

	widths := make([]int, len(data.header))
	for i, h := range data.header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		widths[i] = len(h)
	}
	for r, row := range data.rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
			if n := len(cellText(v)); c < len(widths) && n > widths[c] {
				widths[c] = n
			}
		}
	}

	// Size every column to its longest value, capped so one runaway
	// description cannot dominate the layout.
	for i := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		_ = f.SetColWidth(sheet, col, col, float64(min(60, widths[i]+2)))
	}
	return nil
}

func invoiceSheetData(items []entity.LineItem) sheetData {
	data := sheetData{
		header: []string{
			"item_description",
			"quantity",
			"unit_price",
			"total_non_vat_value",
			"vat_amount",
			"currency",
			"invoice_file",
			"converted_non_vat_value",
		},
	}
	for _, it := range items {
		data.rows = append(data.rows, []any{
			it.ItemDescription,
			optional(it.Quantity),
			optional(it.UnitPrice),
			optional(it.TotalNonVATValue),
			optional(it.VATAmount),
			it.Currency,
			it.InvoiceFile,
			optional(it.ConvertedNonVATValue),
		})
	}
	return data
}

func verificationSheetData(records []entity.VerificationRecord) sheetData {
	data := sheetData{
		header: []string{
			"item_description",
			"invoice_non_vat_value",
			"supporting_attached",
			"supporting_file",
			"extracted_non_vat_value",
			"difference",
			"non_vat_match",
			"invoice_file",
		},
	}
	for _, v := range records {
		data.rows = append(data.rows, []any{
			v.ItemDescription,
			optional(v.InvoiceNonVATValue),
			v.SupportingAttached,
			v.SupportingFile,
			optional(v.ExtractedNonVATValue),
			optional(v.Difference),
			v.NonVATMatch,
			v.InvoiceFile,
		})
	}
	return data
}

func summarySheetData(s entity.Summary) sheetData {
	return sheetData{
		header: []string{
			"total_items_in_invoice",
			"items_with_supporting_docs",
			"items_with_matching_values",
			"items_missing_supporting_docs",
			"items_not_matching_value",
			"total_converted_non_vat_value",
		},
		rows: [][]any{{
			s.TotalItemsInInvoice,
			s.ItemsWithSupportingDocs,
			s.ItemsWithMatchingValues,
			s.ItemsMissingSupportingDocs,
			s.ItemsNotMatchingValue,
			s.TotalConvertedNonVATValue,
		}},
	}
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// cellText approximates how a value will render, for column sizing only.
func cellText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
