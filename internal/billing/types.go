package billing

import (
	"github.com/shopspring/decimal"
)

// DocumentKind identifies which billing document a number or transition
// belongs to.
type DocumentKind string

const (
	KindQuote       DocumentKind = "quote"
	KindInvoice     DocumentKind = "invoice"
	KindChangeOrder DocumentKind = "change_order"
)

// DiscountType controls how Discount is applied to the subtotal.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// LineItem is a single priced row within a billing document. Total is a
// derived attribute; ComputeTotals recomputes it from quantity and unit
// price on every call and never trusts a stored value.
type LineItem struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Category    string          `json:"category,omitempty"`
}

// Totals is the consistent set of monetary outputs for a document.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// Round2 returns the totals rounded to cents for persistence. Intermediate
// math stays unrounded so repeated computation never drifts.
func (t Totals) Round2() Totals {
	return Totals{
		Subtotal:       t.Subtotal.Round(2),
		DiscountAmount: t.DiscountAmount.Round(2),
		TaxableAmount:  t.TaxableAmount.Round(2),
		Tax:            t.Tax.Round(2),
		Total:          t.Total.Round(2),
	}
}

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusViewed   QuoteStatus = "viewed"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusViewed,
		QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusViewed    InvoiceStatus = "viewed"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed,
		InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue,
		InvoiceStatusCancelled:
		return true
	}
	return false
}

type ChangeOrderStatus string

const (
	ChangeOrderStatusPending  ChangeOrderStatus = "pending"
	ChangeOrderStatusApproved ChangeOrderStatus = "approved"
	ChangeOrderStatusRejected ChangeOrderStatus = "rejected"
	ChangeOrderStatusInvoiced ChangeOrderStatus = "invoiced"
)

func (s ChangeOrderStatus) Valid() bool {
	switch s {
	case ChangeOrderStatusPending, ChangeOrderStatusApproved,
		ChangeOrderStatusRejected, ChangeOrderStatusInvoiced:
		return true
	}
	return false
}
