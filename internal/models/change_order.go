package models

import (
	"time"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
)

// ChangeOrder is a request for work beyond an originally quoted scope,
// approved separately and billable through its own invoice.
type ChangeOrder struct {
	ID             int                       `json:"id"`
	OrderNumber    string                    `json:"order_number"`
	ProjectID      int                       `json:"project_id"`
	ClientID       int                       `json:"client_id"`
	Description    string                    `json:"description"`
	Reason         string                    `json:"reason"`
	Items          []billing.LineItem        `json:"items"`
	TaxRate        decimal.Decimal           `json:"tax_rate"`
	Discount       decimal.Decimal           `json:"discount"`
	DiscountType   billing.DiscountType      `json:"discount_type"`
	Subtotal       decimal.Decimal           `json:"subtotal"`
	DiscountAmount decimal.Decimal           `json:"discount_amount"`
	TaxAmount      decimal.Decimal           `json:"tax_amount"`
	Total          decimal.Decimal           `json:"total"`
	Status         billing.ChangeOrderStatus `json:"status"`
	RequestedBy    string                    `json:"requested_by"`
	RequestedDate  time.Time                 `json:"requested_date"`
	ApprovedBy     string                    `json:"approved_by,omitempty"`
	ApprovedDate   *time.Time                `json:"approved_date"`
	InvoiceID      *int                      `json:"invoice_id"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// ChangeOrderWithDetails includes client and project names for list views
type ChangeOrderWithDetails struct {
	ChangeOrder
	ClientName  string `json:"client_name"`
	ProjectName string `json:"project_name"`
}

// CreateChangeOrderRequest represents the request body for creating a change order
type CreateChangeOrderRequest struct {
	ProjectID    int                  `json:"project_id"`
	ClientID     int                  `json:"client_id"`
	Description  string               `json:"description"`
	Reason       string               `json:"reason"`
	Items        []billing.LineItem   `json:"items"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	Discount     decimal.Decimal      `json:"discount"`
	DiscountType billing.DiscountType `json:"discount_type"`
	RequestedBy  string               `json:"requested_by"`
}

// ApproveChangeOrderRequest represents the approval PATCH body
type ApproveChangeOrderRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// UpdateChangeOrderStatusRequest represents the status PATCH body
type UpdateChangeOrderStatusRequest struct {
	Status     billing.ChangeOrderStatus `json:"status"`
	ApprovedBy string                    `json:"approved_by,omitempty"`
}
