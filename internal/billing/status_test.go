package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var allQuoteStatuses = []QuoteStatus{
	QuoteStatusDraft, QuoteStatusSent, QuoteStatusViewed,
	QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired,
}

var allInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed,
	InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

var allChangeOrderStatuses = []ChangeOrderStatus{
	ChangeOrderStatusPending, ChangeOrderStatusApproved,
	ChangeOrderStatusRejected, ChangeOrderStatusInvoiced,
}

// Transition must succeed iff the target is in the table's allowed set, for
// every (from, to) pair.
func TestTransitionQuote_Closure(t *testing.T) {
	for _, from := range allQuoteStatuses {
		allowed := map[QuoteStatus]bool{}
		for _, s := range quoteTransitions[from] {
			allowed[s] = true
		}
		for _, to := range allQuoteStatuses {
			got, err := TransitionQuote(from, to)
			if allowed[to] {
				if err != nil {
					t.Fatalf("quote %s -> %s: unexpected error %v", from, to, err)
				}
				if got != to {
					t.Fatalf("quote %s -> %s: returned %s", from, to, got)
				}
			} else {
				var terr *InvalidTransitionError
				if !errors.As(err, &terr) {
					t.Fatalf("quote %s -> %s: expected InvalidTransitionError, got %v", from, to, err)
				}
				if got != from {
					t.Fatalf("quote %s -> %s: failed transition changed status to %s", from, to, got)
				}
			}
		}
	}
}

func TestTransitionInvoice_Closure(t *testing.T) {
	for _, from := range allInvoiceStatuses {
		allowed := map[InvoiceStatus]bool{}
		for _, s := range invoiceTransitions[from] {
			allowed[s] = true
		}
		for _, to := range allInvoiceStatuses {
			_, err := TransitionInvoice(from, to)
			if allowed[to] != (err == nil) {
				t.Fatalf("invoice %s -> %s: allowed=%v err=%v", from, to, allowed[to], err)
			}
		}
	}
}

func TestTransitionChangeOrder_Closure(t *testing.T) {
	for _, from := range allChangeOrderStatuses {
		allowed := map[ChangeOrderStatus]bool{}
		for _, s := range changeOrderTransitions[from] {
			allowed[s] = true
		}
		for _, to := range allChangeOrderStatuses {
			_, err := TransitionChangeOrder(from, to)
			if allowed[to] != (err == nil) {
				t.Fatalf("change order %s -> %s: allowed=%v err=%v", from, to, allowed[to], err)
			}
		}
	}
}

func TestTransitionQuote_DraftCannotJumpToAccepted(t *testing.T) {
	if _, err := TransitionQuote(QuoteStatusDraft, QuoteStatusAccepted); err == nil {
		t.Fatal("draft -> accepted must be rejected")
	}
	if _, err := TransitionQuote(QuoteStatusSent, QuoteStatusAccepted); err != nil {
		t.Fatalf("sent -> accepted must be permitted, got %v", err)
	}
}

func TestTransition_RejectsUnknownStatus(t *testing.T) {
	if _, err := TransitionQuote(QuoteStatus("bogus"), QuoteStatusSent); err == nil {
		t.Fatal("unknown from-status must be rejected")
	}
	if _, err := TransitionInvoice(InvoiceStatusSent, InvoiceStatus("bogus")); err == nil {
		t.Fatal("unknown to-status must be rejected")
	}
}

func TestApproveChangeOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	status, approvedAt, err := ApproveChangeOrder(ChangeOrderStatusPending, "admin@acme.test", now)
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if status != ChangeOrderStatusApproved || !approvedAt.Equal(now) {
		t.Fatalf("expected approved at %s, got %s at %s", now, status, approvedAt)
	}

	if _, _, err := ApproveChangeOrder(ChangeOrderStatusPending, "", now); err == nil {
		t.Fatal("approval without approver must fail")
	}
	if _, _, err := ApproveChangeOrder(ChangeOrderStatusRejected, "admin@acme.test", now); err == nil {
		t.Fatal("approving a rejected change order must fail")
	}
}

func TestQuoteExpired(t *testing.T) {
	validUntil := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	before := validUntil.Add(-time.Hour)
	after := validUntil.Add(time.Hour)

	if QuoteExpired(QuoteStatusSent, validUntil, before) {
		t.Fatal("quote expired before validUntil")
	}
	if !QuoteExpired(QuoteStatusSent, validUntil, after) {
		t.Fatal("sent quote past validUntil must expire")
	}
	if !QuoteExpired(QuoteStatusViewed, validUntil, after) {
		t.Fatal("viewed quote past validUntil must expire")
	}
	if QuoteExpired(QuoteStatusDraft, validUntil, after) {
		t.Fatal("draft quotes never expire")
	}
	if QuoteExpired(QuoteStatusAccepted, validUntil, after) {
		t.Fatal("terminal quotes never expire")
	}
	if QuoteExpired(QuoteStatusSent, time.Time{}, after) {
		t.Fatal("zero validUntil never expires")
	}
}

func TestInvoiceOverdue(t *testing.T) {
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	after := due.Add(24 * time.Hour)
	owed := decimal.NewFromInt(100)

	if !InvoiceOverdue(InvoiceStatusSent, due, owed, after) {
		t.Fatal("sent invoice past due with balance must be overdue")
	}
	if !InvoiceOverdue(InvoiceStatusPartial, due, owed, after) {
		t.Fatal("partial invoice past due with balance must be overdue")
	}
	if InvoiceOverdue(InvoiceStatusSent, due, decimal.Zero, after) {
		t.Fatal("settled invoice must not go overdue")
	}
	if InvoiceOverdue(InvoiceStatusPaid, due, owed, after) {
		t.Fatal("paid invoice must not go overdue")
	}
	if InvoiceOverdue(InvoiceStatusDraft, due, owed, after) {
		t.Fatal("draft invoice must not go overdue")
	}
	if InvoiceOverdue(InvoiceStatusSent, due, owed, due.Add(-time.Hour)) {
		t.Fatal("invoice before due date must not be overdue")
	}
}
