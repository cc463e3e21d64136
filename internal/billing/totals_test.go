package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seededItems() []LineItem {
	return []LineItem{
		{Description: "Exterior walls", Quantity: dec("5000"), Unit: "sqft", UnitPrice: dec("3.50")},
		{Description: "Interior walls", Quantity: dec("3500"), Unit: "sqft", UnitPrice: dec("8.50")},
		{Description: "Trim and doors", Quantity: dec("2000"), Unit: "sqft", UnitPrice: dec("5.50")},
	}
}

func TestComputeTotals_SeededInvoice(t *testing.T) {
	totals, err := ComputeTotals(seededItems(), dec("8.75"), decimal.Zero, DiscountFixed)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !totals.Subtotal.Equal(dec("58250")) {
		t.Fatalf("subtotal expected 58250, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(dec("5096.875")) {
		t.Fatalf("tax expected 5096.875, got %s", totals.Tax)
	}
	if !totals.Total.Equal(dec("63346.875")) {
		t.Fatalf("total expected 63346.875, got %s", totals.Total)
	}
	if !totals.Total.Round(2).Equal(dec("63346.88")) {
		t.Fatalf("rounded total expected 63346.88, got %s", totals.Total.Round(2))
	}
}

func TestComputeTotals_FixedDiscount(t *testing.T) {
	totals, err := ComputeTotals(seededItems(), dec("8.75"), dec("1500"), DiscountFixed)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !totals.TaxableAmount.Equal(dec("56750")) {
		t.Fatalf("taxable expected 56750, got %s", totals.TaxableAmount)
	}
	if !totals.Tax.Equal(dec("4965.625")) {
		t.Fatalf("tax expected 4965.625, got %s", totals.Tax)
	}
	if !totals.Total.Equal(dec("61715.625")) {
		t.Fatalf("total expected 61715.625, got %s", totals.Total)
	}
}

func TestComputeTotals_DiscountClampedAtSubtotal(t *testing.T) {
	items := []LineItem{{Description: "Job", Quantity: dec("1"), UnitPrice: dec("31000")}}

	cases := []struct {
		name         string
		discount     string
		discountType DiscountType
	}{
		{"percentage over 100", "200", DiscountPercentage},
		{"fixed over subtotal", "99999", DiscountFixed},
	}
	for _, tc := range cases {
		totals, err := ComputeTotals(items, dec("8.75"), dec(tc.discount), tc.discountType)
		if err != nil {
			t.Fatalf("%s: ComputeTotals error: %v", tc.name, err)
		}
		if !totals.TaxableAmount.IsZero() {
			t.Fatalf("%s: taxable expected 0, got %s", tc.name, totals.TaxableAmount)
		}
		if !totals.Tax.IsZero() {
			t.Fatalf("%s: tax expected 0, got %s", tc.name, totals.Tax)
		}
		if !totals.Total.IsZero() {
			t.Fatalf("%s: total expected 0, got %s", tc.name, totals.Total)
		}
		if !totals.DiscountAmount.Equal(dec("31000")) {
			t.Fatalf("%s: discount amount expected 31000, got %s", tc.name, totals.DiscountAmount)
		}
	}
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals, err := ComputeTotals(nil, dec("8.75"), decimal.Zero, DiscountFixed)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	for name, v := range map[string]decimal.Decimal{
		"subtotal": totals.Subtotal,
		"discount": totals.DiscountAmount,
		"taxable":  totals.TaxableAmount,
		"tax":      totals.Tax,
		"total":    totals.Total,
	} {
		if !v.IsZero() {
			t.Fatalf("%s expected 0 for empty items, got %s", name, v)
		}
	}
}

func TestComputeTotals_OrderIndependentAndIdempotent(t *testing.T) {
	items := seededItems()
	reversed := []LineItem{items[2], items[1], items[0]}

	a, err := ComputeTotals(items, dec("7"), dec("10"), DiscountPercentage)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	b, err := ComputeTotals(reversed, dec("7"), dec("10"), DiscountPercentage)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !a.Total.Equal(b.Total) || !a.Subtotal.Equal(b.Subtotal) {
		t.Fatalf("totals depend on item order: %+v vs %+v", a, b)
	}

	again, err := ComputeTotals(items, dec("7"), dec("10"), DiscountPercentage)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if a.Total.String() != again.Total.String() || a.Tax.String() != again.Tax.String() {
		t.Fatalf("repeated computation drifted: %s vs %s", a.Total, again.Total)
	}
}

func TestComputeTotals_IgnoresStaleItemTotals(t *testing.T) {
	// A caller may mutate quantity after the stored total was computed; the
	// stored total must never be trusted.
	items := []LineItem{{Quantity: dec("10"), UnitPrice: dec("5"), Total: dec("9999")}}
	totals, err := ComputeTotals(items, decimal.Zero, decimal.Zero, DiscountFixed)
	if err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !totals.Subtotal.Equal(dec("50")) {
		t.Fatalf("subtotal expected 50, got %s", totals.Subtotal)
	}
}

func TestComputeTotals_DoesNotMutateCallerItems(t *testing.T) {
	items := seededItems()
	items[0].Total = dec("123")
	if _, err := ComputeTotals(items, dec("8.75"), decimal.Zero, DiscountFixed); err != nil {
		t.Fatalf("ComputeTotals error: %v", err)
	}
	if !items[0].Total.Equal(dec("123")) {
		t.Fatalf("caller-owned slice mutated: %s", items[0].Total)
	}
}

func TestComputeTotals_RejectsNegativeInputs(t *testing.T) {
	cases := []struct {
		name     string
		items    []LineItem
		taxRate  decimal.Decimal
		discount decimal.Decimal
	}{
		{"negative quantity", []LineItem{{Quantity: dec("-1"), UnitPrice: dec("5")}}, decimal.Zero, decimal.Zero},
		{"negative price", []LineItem{{Quantity: dec("1"), UnitPrice: dec("-5")}}, decimal.Zero, decimal.Zero},
		{"negative tax rate", seededItems(), dec("-1"), decimal.Zero},
		{"negative discount", seededItems(), decimal.Zero, dec("-1")},
	}
	for _, tc := range cases {
		_, err := ComputeTotals(tc.items, tc.taxRate, tc.discount, DiscountFixed)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestPriceItems(t *testing.T) {
	items := []LineItem{{Quantity: dec("3"), UnitPrice: dec("2.50")}}
	priced := PriceItems(items)
	if !priced[0].Total.Equal(dec("7.5")) {
		t.Fatalf("priced total expected 7.5, got %s", priced[0].Total)
	}
	if !items[0].Total.IsZero() {
		t.Fatalf("input slice mutated: %s", items[0].Total)
	}
}
