package entity

// VerificationRecord represents the audit outcome for one invoice line item.
// Difference is extracted minus invoice value and is nil whenever either side
// is unknown. NonVATMatch is true only when both values are known and the
// absolute difference is within tolerance.
type VerificationRecord struct {
	ItemDescription      string   `json:"item_description"`
	InvoiceNonVATValue   *float64 `json:"invoice_non_vat_value,omitempty"`
	SupportingAttached   bool     `json:"supporting_attached"`
	SupportingFile       string   `json:"supporting_file"`
	ExtractedNonVATValue *float64 `json:"extracted_non_vat_value,omitempty"`
	Difference           *float64 `json:"difference,omitempty"`
	NonVATMatch          bool     `json:"non_vat_match"`
	InvoiceFile          string   `json:"invoice_file"`
}
