package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-validator/constants"
	"github.com/joseph-ayodele/invoice-validator/internal/extract"
	"github.com/joseph-ayodele/invoice-validator/internal/fx"
	"github.com/joseph-ayodele/invoice-validator/internal/llm"
	"github.com/joseph-ayodele/invoice-validator/internal/match"
	"github.com/joseph-ayodele/invoice-validator/internal/pipeline"
	"github.com/joseph-ayodele/invoice-validator/internal/store"
)

// scriptedAdapter stands in for the vision model on both sides of the run:
// line items keyed by invoice file name, document values keyed by supporting
// file name.
type scriptedAdapter struct {
	items  map[string][]llm.LineItemFields
	values map[string]float64
}

func (a *scriptedAdapter) ExtractLineItems(_ context.Context, path string) ([]llm.LineItemFields, error) {
	return a.items[filepath.Base(path)], nil
}

func (a *scriptedAdapter) ExtractDocValue(_ context.Context, path string) (*float64, error) {
	v, ok := a.values[filepath.Base(path)]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

type trackingFetcher struct {
	calls int
}

func (f *trackingFetcher) Latest(context.Context, string) (map[string]float64, error) {
	f.calls++
	return map[string]float64{}, nil
}

type projectDirs struct {
	invoices string
	docs     string
	data     string
}

func newProject(t *testing.T) projectDirs {
	t.Helper()
	root := t.TempDir()
	dirs := projectDirs{
		invoices: filepath.Join(root, constants.InvoicesDirName),
		docs:     filepath.Join(root, constants.SupportingDocsDirName),
		data:     filepath.Join(root, constants.DataDirName),
	}
	require.NoError(t, os.MkdirAll(dirs.invoices, 0o755))
	require.NoError(t, os.MkdirAll(dirs.docs, 0o755))
	return dirs
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
}

// newScenarioValidator wires the real extraction, matching and conversion
// stages around the scripted adapter, as the CLI does.
func newScenarioValidator(t *testing.T, dirs projectDirs, adapter *scriptedAdapter, tolerance float64, ratesFile string, fetcher fx.RateFetcher) *pipeline.Validator {
	t.Helper()
	artifacts := store.NewArtifacts(dirs.data, nil)
	stage := extract.NewStage(extract.Config{}, adapter, artifacts, nil)
	matcher := match.NewMatcher(match.Config{Tolerance: tolerance}, adapter, artifacts, nil)
	converter := fx.NewConverter(fx.ConverterConfig{BaseCurrency: "USD", RatesFile: ratesFile}, fetcher, artifacts, nil)
	return pipeline.NewValidator(
		pipeline.Config{InvoicesDir: dirs.invoices, SupportingDocsDir: dirs.docs},
		stage, matcher, converter, nil, nil,
	)
}

func TestPipelineEmptyInvoiceFolder(t *testing.T) {
	dirs := newProject(t)
	v := newScenarioValidator(t, dirs, &scriptedAdapter{}, 0.01, "", &trackingFetcher{})

	result := v.Run(context.Background())

	assert.True(t, result.Empty())
	assert.Empty(t, result.Invoices)
	assert.Empty(t, result.Verifications)
	assert.NoFileExists(t, filepath.Join(dirs.data, constants.ExtractedCSVName))
}

func TestPipelineMissingSupportingDocsFolder(t *testing.T) {
	dirs := newProject(t)
	require.NoError(t, os.RemoveAll(dirs.docs))
	touch(t, filepath.Join(dirs.invoices, "laptop_invoice.pdf"))
	adapter := &scriptedAdapter{
		items: map[string][]llm.LineItemFields{
			"laptop_invoice.pdf": {{ItemDescription: "Laptop", TotalNonVATValue: fptr(900), Currency: "USD"}},
		},
	}
	fetcher := &trackingFetcher{}
	v := newScenarioValidator(t, dirs, adapter, 0.01, "", fetcher)

	result := v.Run(context.Background())

	require.Len(t, result.Invoices, 1)
	require.Len(t, result.Verifications, 1)

	rec := result.Verifications[0]
	assert.False(t, rec.SupportingAttached)
	assert.False(t, rec.NonVATMatch)
	assert.Empty(t, rec.SupportingFile)

	// Same currency as the base, so the amount passes through untouched.
	require.NotNil(t, result.Invoices[0].ConvertedNonVATValue)
	assert.InDelta(t, 900, *result.Invoices[0].ConvertedNonVATValue, 1e-9)
	assert.Zero(t, fetcher.calls)
}

func TestPipelineVerifiesAgainstSupportingDocument(t *testing.T) {
	dirs := newProject(t)
	touch(t, filepath.Join(dirs.invoices, "laptop_invoice.pdf"))
	touch(t, filepath.Join(dirs.docs, "laptop_invoice_support.png"))
	adapter := &scriptedAdapter{
		items: map[string][]llm.LineItemFields{
			"laptop_invoice.pdf": {{ItemDescription: "Laptop", TotalNonVATValue: fptr(900), Currency: "USD"}},
		},
		values: map[string]float64{"laptop_invoice_support.png": 905},
	}
	v := newScenarioValidator(t, dirs, adapter, 10, "", &trackingFetcher{})

	result := v.Run(context.Background())

	require.Len(t, result.Verifications, 1)
	rec := result.Verifications[0]
	assert.True(t, rec.SupportingAttached)
	assert.Equal(t, "laptop_invoice_support.png", rec.SupportingFile)
	assert.True(t, rec.NonVATMatch)
	require.NotNil(t, rec.Difference)
	assert.InDelta(t, 5, *rec.Difference, 1e-9)

	for _, name := range []string{constants.ExtractedCSVName, constants.VerificationCSVName, constants.ConvertedCSVName} {
		assert.FileExists(t, filepath.Join(dirs.data, name))
	}
}

func TestPipelineConvertsWithLocalRateTable(t *testing.T) {
	dirs := newProject(t)
	touch(t, filepath.Join(dirs.invoices, "hosting_invoice.pdf"))
	ratesFile := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(ratesFile, []byte("from_currency,to_currency,rate\nEUR,USD,1.1\n"), 0o644))

	adapter := &scriptedAdapter{
		items: map[string][]llm.LineItemFields{
			"hosting_invoice.pdf": {{ItemDescription: "Hosting", TotalNonVATValue: fptr(100), Currency: "EUR"}},
		},
	}
	fetcher := &trackingFetcher{}
	v := newScenarioValidator(t, dirs, adapter, 0.01, ratesFile, fetcher)

	result := v.Run(context.Background())

	require.Len(t, result.Invoices, 1)
	require.NotNil(t, result.Invoices[0].ConvertedNonVATValue)
	assert.InDelta(t, 110, *result.Invoices[0].ConvertedNonVATValue, 1e-9)
	assert.Zero(t, fetcher.calls, "local table must short-circuit the remote lookup")
}
