package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OnlineTransaction tracks a payment-gateway order for an invoice from
// creation through capture or failure. A captured transaction produces an
// InvoicePayment.
type OnlineTransaction struct {
	ID               int             `json:"id"`
	InvoiceID        int             `json:"invoice_id"`
	ClientID         int             `json:"client_id"`
	GatewayOrderID   string          `json:"gateway_order_id"`
	GatewayPaymentID string          `json:"gateway_payment_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"` // created, captured, failed
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreatePaymentOrderRequest represents the portal request to start an
// online payment for an invoice
type CreatePaymentOrderRequest struct {
	InvoiceID int             `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentOrderResponse carries the gateway order handle back to the portal
type PaymentOrderResponse struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	KeyID    string          `json:"key_id"`
}
