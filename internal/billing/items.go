package billing

import (
	"encoding/json"
)

// Billing documents persist their line items as a single JSON array column
// rather than a child table. The codec lives here so every document kind
// stores the same shape and round-trips exactly.

// EncodeItems serializes line items for storage. A nil or empty slice
// encodes as an empty array, never null, so decoding is uniform.
func EncodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// DecodeItems parses a stored items column back into line items. An empty
// or null column yields an empty slice.
func DecodeItems(raw []byte) ([]LineItem, error) {
	if len(raw) == 0 {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}
