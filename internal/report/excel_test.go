package report

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-validator/internal/entity"
)

func fptr(v float64) *float64 { return &v }

func openWorkbook(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestBuildWorkbook(t *testing.T) {
	invoices := []entity.LineItem{
		{
			ItemDescription:      "office chair",
			Quantity:             fptr(2),
			UnitPrice:            fptr(1250),
			TotalNonVATValue:     fptr(2500),
			VATAmount:            fptr(375),
			Currency:             "USD",
			InvoiceFile:          "inv-001.pdf",
			ConvertedNonVATValue: fptr(2500),
		},
		{
			ItemDescription:      "hosting",
			TotalNonVATValue:     fptr(99),
			Currency:             "EUR",
			InvoiceFile:          "inv-002.pdf",
			ConvertedNonVATValue: fptr(108.9),
		},
		{ItemDescription: "shipping", Currency: "EUR", InvoiceFile: "inv-002.pdf"},
	}
	verifications := []entity.VerificationRecord{
		{
			ItemDescription:      "office chair",
			InvoiceNonVATValue:   fptr(2500),
			SupportingAttached:   true,
			SupportingFile:       "office_chair.pdf",
			ExtractedNonVATValue: fptr(2500.004),
			Difference:           fptr(0.004),
			NonVATMatch:          true,
			InvoiceFile:          "inv-001.pdf",
		},
		{
			ItemDescription:      "hosting",
			InvoiceNonVATValue:   fptr(99),
			SupportingAttached:   true,
			SupportingFile:       "hosting.pdf",
			ExtractedNonVATValue: fptr(120),
			Difference:           fptr(21),
			NonVATMatch:          false,
			InvoiceFile:          "inv-002.pdf",
		},
		{ItemDescription: "shipping", InvoiceFile: "inv-002.pdf"},
	}
	summary := entity.Summarize(invoices, verifications)

	b, err := NewBuilder(nil).BuildWorkbook(invoices, verifications, summary)
	require.NoError(t, err)

	f := openWorkbook(t, b)
	assert.Equal(t, []string{itemsSheet, verificationSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "item_description", rows[0][0])
	assert.Equal(t, "converted_non_vat_value", rows[0][7])
	assert.Equal(t, "office chair", rows[1][0])
	assert.Equal(t, "2500", rows[1][3])
	assert.Equal(t, "inv-001.pdf", rows[1][6])

	attached, err := f.GetCellValue(verificationSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", attached)
	matched, err := f.GetCellValue(verificationSheet, "G3")
	require.NoError(t, err)
	assert.Equal(t, "FALSE", matched)

	rows, err = f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "total_items_in_invoice", rows[0][0])
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "2", rows[1][1])
	assert.Equal(t, "1", rows[1][2])
	assert.Equal(t, "1", rows[1][3])
	assert.Equal(t, "2", rows[1][4])

	total, err := strconv.ParseFloat(rows[1][5], 64)
	require.NoError(t, err)
	assert.InDelta(t, 2608.9, total, 1e-6)
}

func TestBuildWorkbookColumnWidths(t *testing.T) {
	invoices := []entity.LineItem{
		{ItemDescription: strings.Repeat("x", 80), Currency: "USD", InvoiceFile: "a.pdf"},
	}
	summary := entity.Summarize(invoices, nil)

	b, err := NewBuilder(nil).BuildWorkbook(invoices, nil, summary)
	require.NoError(t, err)

	f := openWorkbook(t, b)

	// Runaway values are capped, short columns track their header.
	width, err := f.GetColWidth(itemsSheet, "A")
	require.NoError(t, err)
	assert.InDelta(t, 60, width, 0.01)

	width, err = f.GetColWidth(itemsSheet, "F")
	require.NoError(t, err)
	assert.InDelta(t, float64(len("currency")+2), width, 0.01)
}

func TestBuildWorkbookEmptyTables(t *testing.T) {
	b, err := NewBuilder(nil).BuildWorkbook(nil, nil, entity.Summarize(nil, nil))
	require.NoError(t, err)

	f := openWorkbook(t, b)

	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	rows, err = f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[1][0])
}
