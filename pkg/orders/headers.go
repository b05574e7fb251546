package orders

import (
	"strings"

	"golang.org/x/text/cases"
)

// headerSynonyms lists the normalized header spellings recognised per field.
// Adding a canonical field means adding it here and to Fields.
var headerSynonyms = map[Field][]string{
	FieldProductName:     {"product name", "product"},
	FieldProductPrice:    {"product price", "price"},
	FieldProductQuantity: {"product quantity", "quantity", "qty"},
	FieldAddress1:        {"address 1", "address1", "address"},
	FieldFirstName:       {"first name", "name", "customer name"},
	FieldPhone:           {"phone", "phone number", "telephone"},
	FieldProductLink:     {"product link", "link"},
	FieldCreatedDate:     {"created date", "date", "order date"},
}

func normalizeHeader(h string) string {
	return cases.Fold().String(strings.Join(strings.Fields(h), " "))
}

// DetectHeaders maps raw headers to canonical fields. A non-empty override
// always wins and is not checked against headers. Fields left unmapped are
// returned in missing, in canonical order.
func DetectHeaders(headers []string, overrides map[Field]string) (HeaderMapping, []Field) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(HeaderMapping, len(Fields))
	var missing []Field
	for _, field := range Fields {
		if o := overrides[field]; o != "" {
			mapping[field] = o
			continue
		}
		if h, ok := matchHeader(headers, normalized, headerSynonyms[field]); ok {
			mapping[field] = h
			continue
		}
		missing = append(missing, field)
	}
	return mapping, missing
}

func matchHeader(headers, normalized, synonyms []string) (string, bool) {
	for i, n := range normalized {
		for _, s := range synonyms {
			if n == s {
				return strings.TrimSpace(headers[i]), true
			}
		}
	}
	return "", false
}

// ParseOverrides validates a field->header payload. Unknown fields are rejected.
func ParseOverrides(raw map[string]string) (map[Field]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[Field]string, len(raw))
	for k, v := range raw {
		f := Field(k)
		if _, ok := headerSynonyms[f]; !ok {
			return nil, &InputError{Message: "unknown field in mapping: " + k}
		}
		out[f] = strings.TrimSpace(v)
	}
	return out, nil
}
