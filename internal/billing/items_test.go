package billing

import (
	"testing"
)

func TestItemsRoundTrip(t *testing.T) {
	items := []LineItem{
		{ID: "li-1", Description: "Exterior walls", Quantity: dec("5000"), Unit: "sqft", UnitPrice: dec("3.50"), Total: dec("17500"), Category: "labor"},
		{Description: "Primer", Quantity: dec("12.5"), Unit: "gal", UnitPrice: dec("42.99"), Total: dec("537.375")},
	}

	raw, err := EncodeItems(items)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	decoded, err := DecodeItems(raw)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(decoded) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(decoded))
	}
	for i := range items {
		a, b := items[i], decoded[i]
		if a.ID != b.ID || a.Description != b.Description || a.Unit != b.Unit || a.Category != b.Category {
			t.Fatalf("item %d text fields changed: %+v vs %+v", i, a, b)
		}
		if !a.Quantity.Equal(b.Quantity) || !a.UnitPrice.Equal(b.UnitPrice) || !a.Total.Equal(b.Total) {
			t.Fatalf("item %d amounts changed: %+v vs %+v", i, a, b)
		}
	}
}

func TestDecodeItems_EmptyColumn(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("null"), []byte("[]")} {
		items, err := DecodeItems(raw)
		if err != nil {
			t.Fatalf("decode %q error: %v", raw, err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("decode %q expected empty slice, got %v", raw, items)
		}
	}
}

func TestEncodeItems_NilEncodesAsArray(t *testing.T) {
	raw, err := EncodeItems(nil)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("nil items expected to encode as [], got %s", raw)
	}
}
