package llm

import "context"

// LineItemFields is the normalized shape we want from the model for one
// invoice line item.
type LineItemFields struct {
	ItemDescription  string   `json:"item_description"`
	Quantity         *float64 `json:"quantity,omitempty"`
	UnitPrice        *float64 `json:"unit_price,omitempty"`          // excluding VAT
	TotalNonVATValue *float64 `json:"total_non_vat_value,omitempty"` // pre-tax line total
	VATAmount        *float64 `json:"vat_amount,omitempty"`
	Currency         string   `json:"currency,omitempty"` // as printed on the invoice
}

// DocumentExtractor is the interface the pipeline depends on.
type DocumentExtractor interface {
	// ExtractLineItems reads a tax invoice and returns every line item the
	// model could recover. An empty slice with nil error means the document
	// yielded nothing usable.
	ExtractLineItems(ctx context.Context, path string) ([]LineItemFields, error)

	// ExtractDocValue reads a supporting document and returns its pre-tax
	// total. A nil value with nil error means the reply held no number.
	ExtractDocValue(ctx context.Context, path string) (*float64, error)
}
