package services

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/cache"
	"estimate-backend/internal/metrics"
	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/timeutil"
)

type InvoiceService struct {
	InvoiceRepo     *repositories.InvoiceRepository
	QuoteRepo       *repositories.QuoteRepository
	ChangeOrderRepo *repositories.ChangeOrderRepository
	NetTermsDays    int
}

func NewInvoiceService(invoiceRepo *repositories.InvoiceRepository, quoteRepo *repositories.QuoteRepository, changeOrderRepo *repositories.ChangeOrderRepository, netTermsDays int) *InvoiceService {
	if netTermsDays <= 0 {
		netTermsDays = billing.DefaultNetTermsDays
	}
	return &InvoiceService{
		InvoiceRepo:     invoiceRepo,
		QuoteRepo:       quoteRepo,
		ChangeOrderRepo: changeOrderRepo,
		NetTermsDays:    netTermsDays,
	}
}

// CreateInvoice creates a standalone invoice not backed by a quote or
// change order.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest, userID int) (*models.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("invoice must have at least one line item")
	}

	totals, err := billing.ComputeTotals(req.Items, req.TaxRate, req.Discount, req.DiscountType)
	if err != nil {
		return nil, err
	}
	totals = totals.Round2()

	now := timeutil.Now()
	dueDate := req.DueDate
	if dueDate == nil {
		d := now.AddDate(0, 0, s.NetTermsDays)
		dueDate = &d
	}

	inv := &models.Invoice{
		ProjectID:      req.ProjectID,
		ClientID:       req.ClientID,
		CreatedByID:    userID,
		Items:          billing.PriceItems(req.Items),
		TaxRate:        req.TaxRate,
		Discount:       req.Discount,
		DiscountType:   req.DiscountType,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.Tax,
		Total:          totals.Total,
		AmountPaid:     decimal.Zero,
		AmountDue:      totals.Total,
		Status:         billing.InvoiceStatusDraft,
		Notes:          req.Notes,
		DueDate:        dueDate,
	}
	return inv, s.createNumbered(ctx, inv, now.Year())
}

// CreateFromQuote converts an accepted quote into a draft invoice. A quote
// converts at most once; the quote itself is left untouched apart from
// the invoice's back-reference.
func (s *InvoiceService) CreateFromQuote(ctx context.Context, quoteID, userID int) (*models.Invoice, error) {
	quote, err := s.QuoteRepo.Get(ctx, quoteID)
	if err != nil {
		return nil, errors.New("quote not found")
	}
	if existing, err := s.InvoiceRepo.GetByQuoteID(ctx, quoteID); err == nil && existing != nil {
		return nil, errors.New("quote has already been converted to invoice " + existing.InvoiceNumber)
	}

	now := timeutil.Now()
	seed, err := billing.ConvertQuote(quote.Status, quoteConversionSource(&quote.Quote), now, s.NetTermsDays)
	if err != nil {
		return nil, err
	}

	inv := s.invoiceFromSeed(seed, quote.ProjectID, quote.ClientID, userID)
	inv.QuoteID = &quote.ID
	inv.Notes = quote.Notes
	return inv, s.createNumbered(ctx, inv, now.Year())
}

// CreateFromChangeOrder converts an approved change order into a draft
// invoice and links the change order to the new invoice.
func (s *InvoiceService) CreateFromChangeOrder(ctx context.Context, changeOrderID, userID int) (*models.Invoice, error) {
	co, err := s.ChangeOrderRepo.Get(ctx, changeOrderID)
	if err != nil {
		return nil, errors.New("change order not found")
	}
	if co.InvoiceID != nil {
		return nil, errors.New("change order has already been invoiced")
	}

	now := timeutil.Now()
	seed, err := billing.ConvertChangeOrder(co.Status, billing.ConversionSource{
		Items:        co.Items,
		TaxRate:      co.TaxRate,
		Discount:     co.Discount,
		DiscountType: co.DiscountType,
	}, now, s.NetTermsDays)
	if err != nil {
		return nil, err
	}

	inv := s.invoiceFromSeed(seed, co.ProjectID, co.ClientID, userID)
	inv.ChangeOrderID = &co.ID
	inv.Notes = co.Description
	if err := s.createNumbered(ctx, inv, now.Year()); err != nil {
		return nil, err
	}
	if err := s.ChangeOrderRepo.MarkInvoiced(ctx, co.ID, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) invoiceFromSeed(seed billing.InvoiceSeed, projectID, clientID, userID int) *models.Invoice {
	// Stored amounts are cent-exact; the NUMERIC(14,2) columns would
	// otherwise round on insert and disagree with the response body.
	totals := seed.Totals.Round2()
	return &models.Invoice{
		ProjectID:      projectID,
		ClientID:       clientID,
		CreatedByID:    userID,
		Items:          seed.Items,
		TaxRate:        seed.TaxRate,
		Discount:       seed.Discount,
		DiscountType:   seed.DiscountType,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.Tax,
		Total:          totals.Total,
		AmountPaid:     seed.AmountPaid,
		AmountDue:      totals.Total.Sub(seed.AmountPaid),
		Status:         seed.Status,
		DueDate:        &seed.DueDate,
	}
}

func (s *InvoiceService) createNumbered(ctx context.Context, inv *models.Invoice, year int) error {
	for attempt := 0; ; attempt++ {
		count, err := s.InvoiceRepo.CountByYear(ctx, year)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = billing.NextDocumentNumber(billing.KindInvoice, year, count)

		err = s.InvoiceRepo.Create(ctx, inv)
		if err == nil {
			metrics.DocumentsCreated.WithLabelValues("invoice").Inc()
			cache.InvalidateDashboardCaches(ctx)
			return nil
		}
		if !repositories.IsUniqueViolation(err) || attempt >= 1 {
			return err
		}
	}
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int) (*models.InvoiceWithDetails, error) {
	return s.InvoiceRepo.Get(ctx, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*models.InvoiceWithDetails, error) {
	return s.InvoiceRepo.List(ctx)
}

func (s *InvoiceService) ListInvoicesByProject(ctx context.Context, projectID int) ([]*models.Invoice, error) {
	return s.InvoiceRepo.ListByProject(ctx, projectID)
}

func (s *InvoiceService) ListInvoicesByClient(ctx context.Context, clientID int) ([]*models.Invoice, error) {
	return s.InvoiceRepo.ListByClient(ctx, clientID)
}

// MarkViewedByClient records the first time a client opens a sent invoice.
// Best effort; a failure here never blocks the read.
func (s *InvoiceService) MarkViewedByClient(ctx context.Context, invoice *models.InvoiceWithDetails) {
	if invoice.Status != billing.InvoiceStatusSent {
		return
	}
	if err := s.InvoiceRepo.UpdateStatus(ctx, invoice.ID, billing.InvoiceStatusViewed); err != nil {
		log.Printf("[Invoice] failed to mark invoice %d viewed: %v", invoice.ID, err)
		return
	}
	invoice.Status = billing.InvoiceStatusViewed
	cache.InvalidateDashboardCaches(ctx)
}

func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id int, status billing.InvoiceStatus) (*models.Invoice, error) {
	existing, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}

	next, err := billing.TransitionInvoice(existing.Status, status)
	if err != nil {
		return nil, err
	}
	if err := s.InvoiceRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	existing.Status = next
	cache.InvalidateDashboardCaches(ctx)
	return &existing.Invoice, nil
}

// RecordPayment applies a manual payment against an invoice, deriving the
// partial/paid status from the running totals instead of trusting the
// caller.
func (s *InvoiceService) RecordPayment(ctx context.Context, id int, req *models.RecordPaymentRequest, userID int) (*models.Invoice, error) {
	existing, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	if existing.Status == billing.InvoiceStatusDraft || existing.Status == billing.InvoiceStatusCancelled {
		return nil, &billing.InvalidStateError{Kind: billing.KindInvoice, Status: string(existing.Status), Op: "record payment"}
	}

	state, err := billing.ApplyPayment(existing.Total, existing.AmountPaid, req.Amount)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = "manual"
	}
	payment := &models.InvoicePayment{
		InvoiceID:        id,
		Amount:           req.Amount,
		Method:           method,
		Reference:        req.Reference,
		Notes:            req.Notes,
		RecordedByUserID: &userID,
	}
	if err := s.InvoiceRepo.RecordPayment(ctx, id, state, payment); err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(method).Inc()
	cache.InvalidateDashboardCaches(ctx)

	existing.AmountPaid = state.AmountPaid
	existing.AmountDue = state.AmountDue
	existing.Status = state.Status
	return &existing.Invoice, nil
}

// RecordGatewayPayment is the webhook-side path: the amount arrives from
// the payment gateway with a capture reference.
func (s *InvoiceService) RecordGatewayPayment(ctx context.Context, id int, amount decimal.Decimal, reference string) (*models.Invoice, error) {
	existing, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}

	state, err := billing.ApplyPayment(existing.Total, existing.AmountPaid, amount)
	if err != nil {
		return nil, err
	}

	payment := &models.InvoicePayment{
		InvoiceID: id,
		Amount:    amount,
		Method:    "razorpay",
		Reference: reference,
	}
	if err := s.InvoiceRepo.RecordPayment(ctx, id, state, payment); err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues("razorpay").Inc()
	cache.InvalidateDashboardCaches(ctx)

	existing.AmountPaid = state.AmountPaid
	existing.AmountDue = state.AmountDue
	existing.Status = state.Status
	return &existing.Invoice, nil
}

func (s *InvoiceService) ListPayments(ctx context.Context, invoiceID int) ([]*models.InvoicePayment, error) {
	return s.InvoiceRepo.ListPayments(ctx, invoiceID)
}

// MarkOverdueInvoices flags every sent or partial invoice past its due
// date with a balance outstanding. Called from the background sweep.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context) (int, error) {
	now := timeutil.Now()
	candidates, err := s.InvoiceRepo.ListOverdueCandidates(ctx, now)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, inv := range candidates {
		if inv.DueDate == nil || !billing.InvoiceOverdue(inv.Status, *inv.DueDate, inv.AmountDue, now) {
			continue
		}
		if err := s.InvoiceRepo.UpdateStatus(ctx, inv.ID, billing.InvoiceStatusOverdue); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}
