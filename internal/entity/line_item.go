package entity

// LineItem represents one extracted invoice line for data transfer between stages.
// A nil numeric field means the model did not report a usable value. All fields
// except ConvertedNonVATValue are fixed once extraction produced the row.
type LineItem struct {
	ItemDescription      string   `json:"item_description"`
	Quantity             *float64 `json:"quantity,omitempty"`
	UnitPrice            *float64 `json:"unit_price,omitempty"`
	TotalNonVATValue     *float64 `json:"total_non_vat_value,omitempty"`
	VATAmount            *float64 `json:"vat_amount,omitempty"`
	Currency             string   `json:"currency"`
	InvoiceFile          string   `json:"invoice_file"`
	ConvertedNonVATValue *float64 `json:"converted_non_vat_value,omitempty"`
}
