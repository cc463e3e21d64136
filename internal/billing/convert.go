package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultNetTermsDays is the standard Net-30 payment window applied to
// invoices produced by conversion. Services may override it from config.
const DefaultNetTermsDays = 30

// ConversionSource carries the billing content copied from a quote or change
// order into a new invoice.
type ConversionSource struct {
	Items        []LineItem
	TaxRate      decimal.Decimal
	Discount     decimal.Decimal
	DiscountType DiscountType
}

// InvoiceSeed is the content of a freshly converted invoice. Identity
// (id, document number, back-reference) is assigned by the caller; the seed
// only fixes the monetary state and initial status.
type InvoiceSeed struct {
	Items        []LineItem
	TaxRate      decimal.Decimal
	Discount     decimal.Decimal
	DiscountType DiscountType
	Totals       Totals
	Status       InvoiceStatus
	AmountPaid   decimal.Decimal
	AmountDue    decimal.Decimal
	DueDate      time.Time
}

// ConvertQuote turns an accepted quote's content into a draft invoice seed.
// The source is not mutated; calling twice yields equivalent seeds, so the
// caller must guard against double conversion (e.g. lookup by quote id).
func ConvertQuote(status QuoteStatus, src ConversionSource, now time.Time, netDays int) (InvoiceSeed, error) {
	if status != QuoteStatusAccepted {
		return InvoiceSeed{}, &InvalidStateError{Kind: KindQuote, Status: string(status), Op: "convert to invoice"}
	}
	return seedInvoice(src, now, netDays)
}

// ConvertChangeOrder turns an approved change order's content into a draft
// invoice seed. Marking the change order invoiced afterwards is the caller's
// responsibility.
func ConvertChangeOrder(status ChangeOrderStatus, src ConversionSource, now time.Time, netDays int) (InvoiceSeed, error) {
	if status != ChangeOrderStatusApproved {
		return InvoiceSeed{}, &InvalidStateError{Kind: KindChangeOrder, Status: string(status), Op: "convert to invoice"}
	}
	return seedInvoice(src, now, netDays)
}

func seedInvoice(src ConversionSource, now time.Time, netDays int) (InvoiceSeed, error) {
	if netDays <= 0 {
		netDays = DefaultNetTermsDays
	}
	totals, err := ComputeTotals(src.Items, src.TaxRate, src.Discount, src.DiscountType)
	if err != nil {
		return InvoiceSeed{}, err
	}
	return InvoiceSeed{
		Items:        PriceItems(src.Items),
		TaxRate:      src.TaxRate,
		Discount:     src.Discount,
		DiscountType: src.DiscountType,
		Totals:       totals,
		Status:       InvoiceStatusDraft,
		AmountPaid:   decimal.Zero,
		AmountDue:    totals.Total,
		DueDate:      now.AddDate(0, 0, netDays),
	}, nil
}

// PaymentState is the invoice payment position after applying a payment.
type PaymentState struct {
	AmountPaid decimal.Decimal
	AmountDue  decimal.Decimal
	Status     InvoiceStatus
}

// ApplyPayment records a payment against an invoice total and derives the
// resulting status: paid when nothing remains due, partial otherwise.
// Overpayment and non-positive amounts are rejected so amountDue can never
// go negative.
func ApplyPayment(total, amountPaid, amount decimal.Decimal) (PaymentState, error) {
	if !amount.IsPositive() {
		return PaymentState{}, &ValidationError{Field: "amount", Message: "payment must be positive"}
	}
	newPaid := amountPaid.Add(amount)
	if newPaid.GreaterThan(total) {
		return PaymentState{}, &ValidationError{Field: "amount", Message: "payment exceeds amount due"}
	}
	due := total.Sub(newPaid)
	status := InvoiceStatusPartial
	if due.IsZero() {
		status = InvoiceStatusPaid
	}
	return PaymentState{AmountPaid: newPaid, AmountDue: due, Status: status}, nil
}
