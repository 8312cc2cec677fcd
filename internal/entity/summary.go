package entity

// Summary holds the KPI row for the report's summary sheet.
type Summary struct {
	TotalItemsInInvoice        int     `json:"total_items_in_invoice"`
	ItemsWithSupportingDocs    int     `json:"items_with_supporting_docs"`
	ItemsWithMatchingValues    int     `json:"items_with_matching_values"`
	ItemsMissingSupportingDocs int     `json:"items_missing_supporting_docs"`
	ItemsNotMatchingValue      int     `json:"items_not_matching_value"`
	TotalConvertedNonVATValue  float64 `json:"total_converted_non_vat_value"`
}

// Summarize computes the report KPIs from the two result tables. Rows with an
// unknown converted value contribute zero to the grand total.
func Summarize(invoices []LineItem, verifications []VerificationRecord) Summary {
	s := Summary{TotalItemsInInvoice: len(invoices)}
	for _, v := range verifications {
		if v.SupportingAttached {
			s.ItemsWithSupportingDocs++
		}
		if v.NonVATMatch {
			s.ItemsWithMatchingValues++
		}
	}
	s.ItemsMissingSupportingDocs = len(verifications) - s.ItemsWithSupportingDocs
	s.ItemsNotMatchingValue = len(verifications) - s.ItemsWithMatchingValues
	for _, it := range invoices {
		if it.ConvertedNonVATValue != nil {
			s.TotalConvertedNonVATValue += *it.ConvertedNonVATValue
		}
	}
	return s
}
