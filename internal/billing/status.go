package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle tables. A transition is legal iff the target appears in the
// current status's allowed set. Acceptance directly from draft is not
// permitted: a quote must be sent before a client can act on it. sent may
// jump straight to accepted/rejected because the portal records the viewed
// event best-effort.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:    {QuoteStatusSent},
	QuoteStatusSent:     {QuoteStatusViewed, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusViewed:   {QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusAccepted: {},
	QuoteStatusRejected: {},
	QuoteStatusExpired:  {},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusViewed, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusViewed:    {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusPartial:   {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      {},
	InvoiceStatusCancelled: {},
}

var changeOrderTransitions = map[ChangeOrderStatus][]ChangeOrderStatus{
	ChangeOrderStatusPending:  {ChangeOrderStatusApproved, ChangeOrderStatusRejected},
	ChangeOrderStatusApproved: {ChangeOrderStatusInvoiced},
	ChangeOrderStatusRejected: {},
	ChangeOrderStatusInvoiced: {},
}

// TransitionQuote validates a quote status change against the lifecycle
// table and returns the new status.
func TransitionQuote(from, to QuoteStatus) (QuoteStatus, error) {
	if !from.Valid() || !to.Valid() {
		return from, &InvalidTransitionError{Kind: KindQuote, From: string(from), To: string(to)}
	}
	for _, allowed := range quoteTransitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, &InvalidTransitionError{Kind: KindQuote, From: string(from), To: string(to)}
}

// TransitionInvoice validates an invoice status change against the lifecycle
// table and returns the new status.
func TransitionInvoice(from, to InvoiceStatus) (InvoiceStatus, error) {
	if !from.Valid() || !to.Valid() {
		return from, &InvalidTransitionError{Kind: KindInvoice, From: string(from), To: string(to)}
	}
	for _, allowed := range invoiceTransitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, &InvalidTransitionError{Kind: KindInvoice, From: string(from), To: string(to)}
}

// TransitionChangeOrder validates a change order status change against the
// lifecycle table and returns the new status.
func TransitionChangeOrder(from, to ChangeOrderStatus) (ChangeOrderStatus, error) {
	if !from.Valid() || !to.Valid() {
		return from, &InvalidTransitionError{Kind: KindChangeOrder, From: string(from), To: string(to)}
	}
	for _, allowed := range changeOrderTransitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, &InvalidTransitionError{Kind: KindChangeOrder, From: string(from), To: string(to)}
}

// ApproveChangeOrder performs the pending->approved transition and stamps
// the approver identity. The approver is required.
func ApproveChangeOrder(from ChangeOrderStatus, approvedBy string, now time.Time) (ChangeOrderStatus, time.Time, error) {
	if approvedBy == "" {
		return from, time.Time{}, &ValidationError{Field: "approved_by", Message: "approver identity is required"}
	}
	next, err := TransitionChangeOrder(from, ChangeOrderStatusApproved)
	if err != nil {
		return from, time.Time{}, err
	}
	return next, now, nil
}

// QuoteExpired reports whether a quote in the given status should become
// expired at the given instant. Only sent and viewed quotes expire; draft
// quotes were never offered and terminal quotes stay terminal.
func QuoteExpired(status QuoteStatus, validUntil, now time.Time) bool {
	if status != QuoteStatusSent && status != QuoteStatusViewed {
		return false
	}
	return !validUntil.IsZero() && now.After(validUntil)
}

// InvoiceOverdue reports whether an invoice should become overdue at the
// given instant: the due date has passed and money is still owed.
func InvoiceOverdue(status InvoiceStatus, dueDate time.Time, amountDue decimal.Decimal, now time.Time) bool {
	switch status {
	case InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPartial:
		return !dueDate.IsZero() && now.After(dueDate) && amountDue.IsPositive()
	}
	return false
}
