package billing

import "testing"

func TestNextDocumentNumber(t *testing.T) {
	cases := []struct {
		kind     DocumentKind
		year     int
		count    int
		expected string
	}{
		{KindQuote, 2024, 0, "Q-2024-001"},
		{KindInvoice, 2024, 0, "INV-2024-001"},
		{KindChangeOrder, 2024, 11, "CO-2024-012"},
		{KindQuote, 2026, 99, "Q-2026-100"},
		{KindInvoice, 2026, 999, "INV-2026-1000"},
		{KindInvoice, 2026, 12344, "INV-2026-12345"},
	}
	for _, tc := range cases {
		got := NextDocumentNumber(tc.kind, tc.year, tc.count)
		if got != tc.expected {
			t.Fatalf("NextDocumentNumber(%s, %d, %d) expected %s, got %s",
				tc.kind, tc.year, tc.count, tc.expected, got)
		}
	}
}
