package llm

// BuildLineItemSchema returns a JSON-Schema (draft 2020-12 subset) for one
// sanitized line item, as a generic map. The same schema gates every element
// of the model's line_items array before it becomes a typed row.
func BuildLineItemSchema() map[string]any {
	props := map[string]any{
		"item_description":    map[string]any{"type": "string", "minLength": 1},
		"quantity":            numberProp(),
		"unit_price":          numberProp(),
		"total_non_vat_value": numberProp(),
		"vat_amount":          numberProp(),
		"currency":            map[string]any{"type": "string", "minLength": 1},
	}
	required := []string{"item_description"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func numberProp() map[string]any {
	return map[string]any{"type": "number"}
}
