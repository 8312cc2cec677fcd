package llm

import (
	"strings"
)

// BuildInvoicePrompt composes the system message for invoice line-item
// extraction. The reply must be a single JSON object so it survives the
// json_object response format.
func BuildInvoicePrompt() string {
	parts := []string{
		"You are an expert in reading tax invoices.",
		"Analyze the attached tax invoice and extract EACH line item.",
		"Return ONLY a JSON object with a single key 'line_items' holding an array of objects.",
		"Each object has exactly these keys: item_description (string), quantity (number), unit_price (number, excluding VAT), total_non_vat_value (number), vat_amount (number), currency (string, 3-letter ISO 4217).",
		"Numbers must be plain JSON numbers without currency symbols or thousands separators.",
		"If the invoice has no line items, return {\"line_items\": []}.",
		"No explanations, no comments, no extra fields.",
	}
	return strings.Join(parts, " ")
}

// BuildDocValuePrompt forces a numeric-only reply for supporting documents.
func BuildDocValuePrompt() string {
	parts := []string{
		"You are a financial data extraction engine.",
		"From this document, extract ONLY the total non-VAT value (the pre-tax total).",
		"Return ONLY the numeric value.",
		"No currency symbol, no explanation, no text, no commas, no quotes, no code blocks.",
		"Example output: 1234.56",
	}
	return strings.Join(parts, " ")
}
