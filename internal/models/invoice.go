package models

import (
	"time"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
)

// Invoice is a bill for work, tracking amounts paid and due. It may have
// been converted from an accepted quote or an approved change order; the
// back-reference is one-way (the source never points at the invoice).
type Invoice struct {
	ID             int                   `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	ProjectID      int                   `json:"project_id"`
	ClientID       int                   `json:"client_id"`
	CreatedByID    int                   `json:"created_by_id"`
	QuoteID        *int                  `json:"quote_id"`
	ChangeOrderID  *int                  `json:"change_order_id"`
	Items          []billing.LineItem    `json:"items"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	Discount       decimal.Decimal       `json:"discount"`
	DiscountType   billing.DiscountType  `json:"discount_type"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	Total          decimal.Decimal       `json:"total"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	AmountDue      decimal.Decimal       `json:"amount_due"`
	Status         billing.InvoiceStatus `json:"status"`
	Notes          string                `json:"notes"`
	DueDate        *time.Time            `json:"due_date"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceWithDetails includes client and project names for list views
type InvoiceWithDetails struct {
	Invoice
	ClientName  string `json:"client_name"`
	ProjectName string `json:"project_name"`
}

// CreateInvoiceRequest represents the request body for creating an invoice
// directly (not via conversion)
type CreateInvoiceRequest struct {
	ProjectID    int                  `json:"project_id"`
	ClientID     int                  `json:"client_id"`
	Items        []billing.LineItem   `json:"items"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	Discount     decimal.Decimal      `json:"discount"`
	DiscountType billing.DiscountType `json:"discount_type"`
	Notes        string               `json:"notes"`
	DueDate      *time.Time           `json:"due_date"`
}

// UpdateInvoiceStatusRequest represents the status PATCH body
type UpdateInvoiceStatusRequest struct {
	Status billing.InvoiceStatus `json:"status"`
}

// RecordPaymentRequest represents a manual payment entry (check, cash, bank
// transfer) recorded by staff
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// InvoicePayment is one recorded payment against an invoice
type InvoicePayment struct {
	ID               int             `json:"id"`
	InvoiceID        int             `json:"invoice_id"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"` // manual, razorpay
	Reference        string          `json:"reference"`
	Notes            string          `json:"notes"`
	RecordedByUserID *int            `json:"recorded_by_user_id"`
	CreatedAt        time.Time       `json:"created_at"`
}
