package models

import (
	"time"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
)

// Quote is a pre-work price proposal sent to a client for acceptance. Items
// are stored denormalized as a JSON array column; all monetary fields are
// decimal and derived by the billing engine.
type Quote struct {
	ID             int                  `json:"id"`
	QuoteNumber    string               `json:"quote_number"`
	ProjectID      int                  `json:"project_id"`
	ClientID       int                  `json:"client_id"`
	CreatedByID    int                  `json:"created_by_id"`
	Items          []billing.LineItem   `json:"items"`
	TaxRate        decimal.Decimal      `json:"tax_rate"`
	Discount       decimal.Decimal      `json:"discount"`
	DiscountType   billing.DiscountType `json:"discount_type"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	Total          decimal.Decimal      `json:"total"`
	Status         billing.QuoteStatus  `json:"status"`
	Notes          string               `json:"notes"`
	Terms          string               `json:"terms"`
	ValidUntil     *time.Time           `json:"valid_until"`
	AcceptedAt     *time.Time           `json:"accepted_at"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// QuoteWithDetails includes client and project names for list views
type QuoteWithDetails struct {
	Quote
	ClientName  string `json:"client_name"`
	ProjectName string `json:"project_name"`
}

// CreateQuoteRequest represents the request body for creating a quote
type CreateQuoteRequest struct {
	ProjectID    int                  `json:"project_id"`
	ClientID     int                  `json:"client_id"`
	Items        []billing.LineItem   `json:"items"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	Discount     decimal.Decimal      `json:"discount"`
	DiscountType billing.DiscountType `json:"discount_type"`
	Notes        string               `json:"notes"`
	Terms        string               `json:"terms"`
	ValidUntil   *time.Time           `json:"valid_until"`
}

// UpdateQuoteRequest represents the request body for editing a draft quote
type UpdateQuoteRequest struct {
	Items        []billing.LineItem   `json:"items"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	Discount     decimal.Decimal      `json:"discount"`
	DiscountType billing.DiscountType `json:"discount_type"`
	Notes        string               `json:"notes"`
	Terms        string               `json:"terms"`
	ValidUntil   *time.Time           `json:"valid_until"`
}

// UpdateQuoteStatusRequest represents the status PATCH body
type UpdateQuoteStatusRequest struct {
	Status billing.QuoteStatus `json:"status"`
}
