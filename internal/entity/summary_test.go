package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	tests := []struct {
		name          string
		invoices      []LineItem
		verifications []VerificationRecord
		expected      Summary
	}{
		{
			name:     "empty tables",
			expected: Summary{},
		},
		{
			name: "mixed outcomes",
			invoices: []LineItem{
				{ItemDescription: "consulting", ConvertedNonVATValue: fptr(100)},
				{ItemDescription: "hosting", ConvertedNonVATValue: fptr(55.5)},
				{ItemDescription: "license"},
			},
			verifications: []VerificationRecord{
				{ItemDescription: "consulting", SupportingAttached: true, NonVATMatch: true},
				{ItemDescription: "hosting", SupportingAttached: true, NonVATMatch: false},
				{ItemDescription: "license", SupportingAttached: false, NonVATMatch: false},
			},
			expected: Summary{
				TotalItemsInInvoice:        3,
				ItemsWithSupportingDocs:    2,
				ItemsWithMatchingValues:    1,
				ItemsMissingSupportingDocs: 1,
				ItemsNotMatchingValue:      2,
				TotalConvertedNonVATValue:  155.5,
			},
		},
		{
			name: "nil converted values contribute zero",
			invoices: []LineItem{
				{ItemDescription: "a"},
				{ItemDescription: "b", ConvertedNonVATValue: fptr(10)},
			},
			verifications: []VerificationRecord{
				{ItemDescription: "a"},
				{ItemDescription: "b"},
			},
			expected: Summary{
				TotalItemsInInvoice:        2,
				ItemsMissingSupportingDocs: 2,
				ItemsNotMatchingValue:      2,
				TotalConvertedNonVATValue:  10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.invoices, tt.verifications)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPipelineResultEmpty(t *testing.T) {
	assert.True(t, PipelineResult{}.Empty())
	assert.False(t, PipelineResult{Invoices: []LineItem{{ItemDescription: "x"}}}.Empty())
	assert.False(t, PipelineResult{Verifications: []VerificationRecord{{ItemDescription: "x"}}}.Empty())
}
