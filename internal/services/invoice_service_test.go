package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
)

func TestInvoiceFromSeed_StoresCentExactTotals(t *testing.T) {
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	// 58250 at 8.75% tax computes to 63346.875; the stored invoice must
	// carry the cents the database will keep.
	seed, err := billing.ConvertQuote(billing.QuoteStatusAccepted, billing.ConversionSource{
		Items: []billing.LineItem{
			{ID: "1", Description: "Exterior repaint", Quantity: dec("1"), Unit: "job", UnitPrice: dec("58250")},
		},
		TaxRate:      dec("8.75"),
		Discount:     decimal.Zero,
		DiscountType: billing.DiscountFixed,
	}, now, 30)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	svc := &InvoiceService{}
	inv := svc.invoiceFromSeed(seed, 1, 2, 3)

	if !inv.TaxAmount.Equal(dec("5096.88")) {
		t.Fatalf("tax expected 5096.88, got %s", inv.TaxAmount)
	}
	if !inv.Total.Equal(dec("63346.88")) {
		t.Fatalf("total expected 63346.88, got %s", inv.Total)
	}
	if !inv.AmountDue.Equal(inv.Total) {
		t.Fatalf("amount due %s must equal rounded total %s", inv.AmountDue, inv.Total)
	}
	if !inv.AmountPaid.IsZero() {
		t.Fatalf("amount paid expected zero, got %s", inv.AmountPaid)
	}
	if inv.Status != billing.InvoiceStatusDraft {
		t.Fatalf("status expected draft, got %s", inv.Status)
	}
}
