package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	fencedBlockRe  = regexp.MustCompile("(?s)```.*?```")
	numericTokenRe = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

	numericCleaner = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "\"", "", "'", "")
)

// StripFences removes markdown code fences around a JSON payload, keeping the
// fenced content. Handles ``` and ```json openers.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// DecodeLineItems decodes the model reply into raw line-item maps. It accepts
// either {"line_items": [...]} or a bare JSON array.
func DecodeLineItems(content string) ([]map[string]any, error) {
	text := StripFences(content)
	if text == "" {
		return nil, nil
	}

	var wrapped struct {
		LineItems []map[string]any `json:"line_items"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.LineItems != nil {
		return wrapped.LineItems, nil
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode line items: %w", err)
	}
	return items, nil
}

// ParseAmount coerces a raw JSON value into a float64. Strings are cleaned of
// currency symbols, thousands separators and quotes before an exact decimal
// parse.
func ParseAmount(v any) (*float64, bool) {
	switch t := v.(type) {
	case float64:
		f := t
		return &f, true
	case string:
		s := strings.TrimSpace(numericCleaner.Replace(t))
		if s == "" {
			return nil, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, false
		}
		f, _ := d.Float64()
		return &f, true
	default:
		return nil, false
	}
}

var numericItemFields = []string{"quantity", "unit_price", "total_non_vat_value", "vat_amount"}

var allowedItemKeys = map[string]struct{}{
	"item_description": {}, "quantity": {}, "unit_price": {},
	"total_non_vat_value": {}, "vat_amount": {}, "currency": {},
}

// SanitizeLineItem normalizes one raw line-item map so it can pass the strict
// schema:
//   - renames known synonyms (description -> item_description)
//   - coerces numeric strings to numbers, dropping what cannot be parsed
//   - drops nulls, empties and unknown keys
//
// It returns the cleaned map plus the list of adjustments for logging.
func SanitizeLineItem(raw map[string]any) (map[string]any, []string) {
	m := maps.Clone(raw)
	dropped := make([]string, 0, 4)

	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}
	renamed("description", "item_description")
	renamed("net_value", "total_non_vat_value")
	renamed("vat", "vat_amount")

	for _, k := range numericItemFields {
		v, ok := m[k]
		if !ok {
			continue
		}
		if v == nil {
			delete(m, k)
			dropped = append(dropped, k+"(null)")
			continue
		}
		f, ok := ParseAmount(v)
		if !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unparsable)")
			continue
		}
		m[k] = *f
	}

	for _, k := range []string{"item_description", "currency"} {
		if v, ok := m[k]; ok {
			s, isStr := v.(string)
			if !isStr {
				delete(m, k)
				dropped = append(dropped, k+"(type)")
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
				continue
			}
			m[k] = s
		}
	}

	for k := range maps.Clone(m) {
		if _, ok := allowedItemKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	return m, dropped
}

// FirstNumericValue extracts the first numeric token from a doc-value reply.
// Fenced blocks are removed wholesale before scanning, so a reply hidden
// entirely inside fences yields nothing.
func FirstNumericValue(s string) (float64, bool) {
	text := strings.TrimSpace(fencedBlockRe.ReplaceAllString(s, ""))
	token := numericTokenRe.FindString(numericCleaner.Replace(text))
	if token == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(token)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
