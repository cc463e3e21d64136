package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestConvertQuote(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	src := ConversionSource{
		Items:        seededItems(),
		TaxRate:      dec("8.75"),
		Discount:     decimal.Zero,
		DiscountType: DiscountFixed,
	}

	seed, err := ConvertQuote(QuoteStatusAccepted, src, now, 0)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if seed.Status != InvoiceStatusDraft {
		t.Fatalf("converted invoice must start draft, got %s", seed.Status)
	}
	if !seed.AmountPaid.IsZero() {
		t.Fatalf("amount paid expected 0, got %s", seed.AmountPaid)
	}
	if !seed.AmountDue.Equal(seed.Totals.Total) {
		t.Fatalf("amount due %s must equal total %s", seed.AmountDue, seed.Totals.Total)
	}
	if !seed.AmountDue.Round(2).Equal(dec("63346.88")) {
		t.Fatalf("amount due expected 63346.88, got %s", seed.AmountDue.Round(2))
	}
	if expected := now.AddDate(0, 0, 30); !seed.DueDate.Equal(expected) {
		t.Fatalf("due date expected %s (Net-30), got %s", expected, seed.DueDate)
	}
	if len(seed.Items) != 3 {
		t.Fatalf("expected 3 copied items, got %d", len(seed.Items))
	}
}

func TestConvertQuote_CustomNetTerms(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	seed, err := ConvertQuote(QuoteStatusAccepted, ConversionSource{DiscountType: DiscountFixed}, now, 14)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if expected := now.AddDate(0, 0, 14); !seed.DueDate.Equal(expected) {
		t.Fatalf("due date expected %s, got %s", expected, seed.DueDate)
	}
}

func TestConvertQuote_RequiresAccepted(t *testing.T) {
	for _, status := range []QuoteStatus{QuoteStatusDraft, QuoteStatusSent, QuoteStatusViewed, QuoteStatusRejected, QuoteStatusExpired} {
		_, err := ConvertQuote(status, ConversionSource{DiscountType: DiscountFixed}, time.Now(), 30)
		var serr *InvalidStateError
		if !errors.As(err, &serr) {
			t.Fatalf("convert from %s: expected InvalidStateError, got %v", status, err)
		}
	}
}

func TestConvertChangeOrder_RequiresApproved(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	if _, err := ConvertChangeOrder(ChangeOrderStatusApproved, ConversionSource{DiscountType: DiscountFixed}, now, 30); err != nil {
		t.Fatalf("approved change order must convert, got %v", err)
	}
	for _, status := range []ChangeOrderStatus{ChangeOrderStatusPending, ChangeOrderStatusRejected, ChangeOrderStatusInvoiced} {
		var serr *InvalidStateError
		_, err := ConvertChangeOrder(status, ConversionSource{DiscountType: DiscountFixed}, now, 30)
		if !errors.As(err, &serr) {
			t.Fatalf("convert from %s: expected InvalidStateError, got %v", status, err)
		}
	}
}

func TestConvert_EquivalentContentOnRepeat(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	src := ConversionSource{Items: seededItems(), TaxRate: dec("8.75"), DiscountType: DiscountFixed}

	a, err := ConvertQuote(QuoteStatusAccepted, src, now, 30)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	b, err := ConvertQuote(QuoteStatusAccepted, src, now, 30)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if !a.Totals.Total.Equal(b.Totals.Total) || !a.DueDate.Equal(b.DueDate) {
		t.Fatalf("repeat conversion produced different content: %+v vs %+v", a, b)
	}
}

func TestApplyPayment(t *testing.T) {
	total := dec("1000")

	state, err := ApplyPayment(total, decimal.Zero, dec("400"))
	if err != nil {
		t.Fatalf("payment error: %v", err)
	}
	if state.Status != InvoiceStatusPartial || !state.AmountDue.Equal(dec("600")) {
		t.Fatalf("expected partial/600, got %s/%s", state.Status, state.AmountDue)
	}

	state, err = ApplyPayment(total, state.AmountPaid, dec("600"))
	if err != nil {
		t.Fatalf("payment error: %v", err)
	}
	if state.Status != InvoiceStatusPaid || !state.AmountDue.IsZero() {
		t.Fatalf("expected paid/0, got %s/%s", state.Status, state.AmountDue)
	}

	if _, err := ApplyPayment(total, dec("900"), dec("200")); err == nil {
		t.Fatal("overpayment must be rejected")
	}
	if _, err := ApplyPayment(total, decimal.Zero, decimal.Zero); err == nil {
		t.Fatal("zero payment must be rejected")
	}
	if _, err := ApplyPayment(total, decimal.Zero, dec("-5")); err == nil {
		t.Fatal("negative payment must be rejected")
	}
}
