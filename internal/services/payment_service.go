package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/timeutil"
)

// PaymentService runs the online payment flow: a portal client opens a
// Razorpay order against an invoice balance, and the signed verification
// callback turns it into a recorded invoice payment.
type PaymentService struct {
	TransactionRepo *repositories.OnlineTransactionRepository
	InvoiceRepo     *repositories.InvoiceRepository
	InvoiceService  *InvoiceService

	keyID         string
	keySecret     string
	webhookSecret string
	currency      string
}

func NewPaymentService(
	keyID, keySecret, webhookSecret, currency string,
	transactionRepo *repositories.OnlineTransactionRepository,
	invoiceRepo *repositories.InvoiceRepository,
	invoiceService *InvoiceService,
) *PaymentService {
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		TransactionRepo: transactionRepo,
		InvoiceRepo:     invoiceRepo,
		InvoiceService:  invoiceService,
		keyID:           keyID,
		keySecret:       keySecret,
		webhookSecret:   webhookSecret,
		currency:        currency,
	}
}

// Enabled reports whether gateway credentials are configured.
func (s *PaymentService) Enabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

func (s *PaymentService) client() *razorpay.Client {
	if !s.Enabled() {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// CreateOrder creates a gateway order for an invoice balance and stores
// the transaction record. The amount defaults to the full amount due and
// may never exceed it.
func (s *PaymentService) CreateOrder(ctx context.Context, clientID int, req *models.CreatePaymentOrderRequest) (*models.PaymentOrderResponse, error) {
	client := s.client()
	if client == nil {
		return nil, errors.New("online payments are not configured")
	}

	invoice, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	if invoice.ClientID != clientID {
		return nil, errors.New("invoice does not belong to this client")
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = invoice.AmountDue
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("payment amount must be positive")
	}
	if amount.GreaterThan(invoice.AmountDue) {
		return nil, fmt.Errorf("payment amount exceeds balance due (%s)", invoice.AmountDue.StringFixed(2))
	}

	// Razorpay wants the amount in the smallest currency unit (paise)
	amountPaise := amount.Mul(decimal.NewFromInt(100)).IntPart()

	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": s.currency,
		"receipt":  fmt.Sprintf("rcpt_%d_%d", invoice.ID, timeutil.Now().Unix()),
		"notes": map[string]interface{}{
			"invoice_id":     invoice.ID,
			"invoice_number": invoice.InvoiceNumber,
			"client_id":      clientID,
		},
	}
	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, errors.New("gateway returned no order id")
	}

	tx := &models.OnlineTransaction{
		InvoiceID:      invoice.ID,
		ClientID:       clientID,
		GatewayOrderID: orderID,
		Amount:         amount,
		Currency:       s.currency,
		Status:         "created",
	}
	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &models.PaymentOrderResponse{
		OrderID:  orderID,
		Amount:   amount,
		Currency: s.currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPaymentRequest is the browser-side confirmation payload
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPayment verifies the payment signature, marks the transaction
// captured and applies the amount to the invoice.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*models.OnlineTransaction, error) {
	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if tx, err := s.TransactionRepo.GetByGatewayOrderID(ctx, req.RazorpayOrderID); err == nil {
			_ = s.TransactionRepo.MarkFailed(ctx, tx.ID)
		}
		return nil, errors.New("invalid payment signature")
	}

	tx, err := s.TransactionRepo.GetByGatewayOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	if tx.Status == "captured" {
		// Already processed, repeat confirmations are harmless
		return tx, nil
	}

	if err := s.TransactionRepo.MarkCaptured(ctx, tx.ID, req.RazorpayPaymentID); err != nil {
		return nil, err
	}
	tx.Status = "captured"
	tx.GatewayPaymentID = req.RazorpayPaymentID

	if _, err := s.InvoiceService.RecordGatewayPayment(ctx, tx.InvoiceID, tx.Amount, req.RazorpayPaymentID); err != nil {
		// The capture is real even if our bookkeeping failed; log and
		// surface so staff can reconcile manually.
		log.Printf("[Payment] Captured %s but failed to record against invoice %d: %v", req.RazorpayPaymentID, tx.InvoiceID, err)
		return nil, fmt.Errorf("payment captured but not recorded: %w", err)
	}
	return tx, nil
}

func (s *PaymentService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// VerifyWebhookSignature verifies the webhook signature
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true // Skip verification if not configured
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

func (s *PaymentService) ListInvoiceTransactions(ctx context.Context, invoiceID int) ([]*models.OnlineTransaction, error) {
	return s.TransactionRepo.ListByInvoice(ctx, invoiceID)
}

// ProcessWebhook dispatches a verified gateway webhook event.
func (s *PaymentService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	switch event {
	case "payment.captured":
		return s.handlePaymentCaptured(ctx, payload)
	case "payment.failed":
		return s.handlePaymentFailed(ctx, payload)
	default:
		log.Printf("[Payment] Unhandled webhook event: %s", event)
		return nil
	}
}

func webhookPaymentEntity(payload map[string]interface{}) map[string]interface{} {
	paymentEntity, ok := payload["payment"].(map[string]interface{})
	if !ok {
		paymentEntity = payload
	}
	entity, ok := paymentEntity["entity"].(map[string]interface{})
	if !ok {
		entity = paymentEntity
	}
	return entity
}

func (s *PaymentService) handlePaymentCaptured(ctx context.Context, payload map[string]interface{}) error {
	entity := webhookPaymentEntity(payload)
	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)
	if orderID == "" {
		return errors.New("missing order_id in webhook")
	}

	tx, err := s.TransactionRepo.GetByGatewayOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}
	if tx.Status == "captured" {
		// Browser confirmation already handled it
		return nil
	}

	if err := s.TransactionRepo.MarkCaptured(ctx, tx.ID, paymentID); err != nil {
		return err
	}
	if _, err := s.InvoiceService.RecordGatewayPayment(ctx, tx.InvoiceID, tx.Amount, paymentID); err != nil {
		log.Printf("[Payment] Captured %s but failed to record against invoice %d: %v", paymentID, tx.InvoiceID, err)
		return fmt.Errorf("payment captured but not recorded: %w", err)
	}
	log.Printf("[Payment] Webhook captured payment %s for invoice %d", paymentID, tx.InvoiceID)
	return nil
}

func (s *PaymentService) handlePaymentFailed(ctx context.Context, payload map[string]interface{}) error {
	entity := webhookPaymentEntity(payload)
	orderID, _ := entity["order_id"].(string)
	if orderID == "" {
		return errors.New("missing order_id in webhook")
	}

	tx, err := s.TransactionRepo.GetByGatewayOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}
	if tx.Status == "captured" {
		return nil
	}
	return s.TransactionRepo.MarkFailed(ctx, tx.ID)
}
