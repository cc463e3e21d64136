package services

import (
	"context"
	"errors"
	"log"
	"time"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/cache"
	"estimate-backend/internal/metrics"
	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/timeutil"
)

type QuoteService struct {
	QuoteRepo   *repositories.QuoteRepository
	ProjectRepo *repositories.ProjectRepository
}

func NewQuoteService(quoteRepo *repositories.QuoteRepository, projectRepo *repositories.ProjectRepository) *QuoteService {
	return &QuoteService{
		QuoteRepo:   quoteRepo,
		ProjectRepo: projectRepo,
	}
}

func (s *QuoteService) CreateQuote(ctx context.Context, req *models.CreateQuoteRequest, userID int) (*models.Quote, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("quote must have at least one line item")
	}

	project, err := s.ProjectRepo.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	totals, err := billing.ComputeTotals(req.Items, req.TaxRate, req.Discount, req.DiscountType)
	if err != nil {
		return nil, err
	}
	totals = totals.Round2()

	now := timeutil.Now()
	quote := &models.Quote{
		ProjectID:      req.ProjectID,
		ClientID:       project.ClientID,
		CreatedByID:    userID,
		Items:          billing.PriceItems(req.Items),
		TaxRate:        req.TaxRate,
		Discount:       req.Discount,
		DiscountType:   req.DiscountType,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.Tax,
		Total:          totals.Total,
		Status:         billing.QuoteStatusDraft,
		Notes:          req.Notes,
		Terms:          req.Terms,
		ValidUntil:     req.ValidUntil,
	}

	// Number assignment can race with a concurrent create; the unique index
	// on quote_number catches that, so retry once with a fresh count.
	for attempt := 0; ; attempt++ {
		count, err := s.QuoteRepo.CountByYear(ctx, now.Year())
		if err != nil {
			return nil, err
		}
		quote.QuoteNumber = billing.NextDocumentNumber(billing.KindQuote, now.Year(), count)

		err = s.QuoteRepo.Create(ctx, quote)
		if err == nil {
			metrics.DocumentsCreated.WithLabelValues("quote").Inc()
			cache.InvalidateDashboardCaches(ctx)
			return quote, nil
		}
		if !repositories.IsUniqueViolation(err) || attempt >= 1 {
			return nil, err
		}
	}
}

func (s *QuoteService) GetQuote(ctx context.Context, id int) (*models.QuoteWithDetails, error) {
	return s.QuoteRepo.Get(ctx, id)
}

func (s *QuoteService) ListQuotes(ctx context.Context) ([]*models.QuoteWithDetails, error) {
	return s.QuoteRepo.List(ctx)
}

func (s *QuoteService) ListQuotesByProject(ctx context.Context, projectID int) ([]*models.Quote, error) {
	return s.QuoteRepo.ListByProject(ctx, projectID)
}

func (s *QuoteService) ListQuotesByClient(ctx context.Context, clientID int) ([]*models.Quote, error) {
	return s.QuoteRepo.ListByClient(ctx, clientID)
}

// UpdateQuote replaces a draft quote's content and recomputes its totals.
// Only drafts are editable; everything past draft is a record of what was
// sent to the client.
func (s *QuoteService) UpdateQuote(ctx context.Context, id int, req *models.UpdateQuoteRequest) (*models.Quote, error) {
	existing, err := s.QuoteRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("quote not found")
	}
	if existing.Status != billing.QuoteStatusDraft {
		return nil, &billing.InvalidStateError{Kind: billing.KindQuote, Status: string(existing.Status), Op: "update"}
	}
	if len(req.Items) == 0 {
		return nil, errors.New("quote must have at least one line item")
	}

	totals, err := billing.ComputeTotals(req.Items, req.TaxRate, req.Discount, req.DiscountType)
	if err != nil {
		return nil, err
	}
	totals = totals.Round2()

	quote := &existing.Quote
	quote.Items = billing.PriceItems(req.Items)
	quote.TaxRate = req.TaxRate
	quote.Discount = req.Discount
	quote.DiscountType = req.DiscountType
	quote.Subtotal = totals.Subtotal
	quote.DiscountAmount = totals.DiscountAmount
	quote.TaxAmount = totals.Tax
	quote.Total = totals.Total
	quote.Notes = req.Notes
	quote.Terms = req.Terms
	quote.ValidUntil = req.ValidUntil

	if err := s.QuoteRepo.UpdateContent(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) UpdateQuoteStatus(ctx context.Context, id int, status billing.QuoteStatus) (*models.Quote, error) {
	existing, err := s.QuoteRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("quote not found")
	}

	next, err := billing.TransitionQuote(existing.Status, status)
	if err != nil {
		return nil, err
	}

	var acceptedAt *time.Time
	if next == billing.QuoteStatusAccepted {
		now := timeutil.Now()
		acceptedAt = &now
	}
	if err := s.QuoteRepo.UpdateStatus(ctx, id, next, acceptedAt); err != nil {
		return nil, err
	}

	existing.Status = next
	if acceptedAt != nil {
		existing.AcceptedAt = acceptedAt
	}
	cache.InvalidateDashboardCaches(ctx)
	return &existing.Quote, nil
}

// MarkViewedByClient records the first time a client opens a sent quote.
// Best effort; a failure here never blocks the read.
func (s *QuoteService) MarkViewedByClient(ctx context.Context, quote *models.QuoteWithDetails) {
	if quote.Status != billing.QuoteStatusSent {
		return
	}
	if err := s.QuoteRepo.UpdateStatus(ctx, quote.ID, billing.QuoteStatusViewed, nil); err != nil {
		log.Printf("[Quote] failed to mark quote %d viewed: %v", quote.ID, err)
		return
	}
	quote.Status = billing.QuoteStatusViewed
	cache.InvalidateDashboardCaches(ctx)
}

// AcceptQuoteByClient is the portal-side acceptance path. It enforces that
// the quote belongs to the calling client before transitioning.
func (s *QuoteService) AcceptQuoteByClient(ctx context.Context, id, clientID int, accept bool) (*models.Quote, error) {
	existing, err := s.QuoteRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("quote not found")
	}
	if existing.ClientID != clientID {
		return nil, errors.New("quote does not belong to this client")
	}

	target := billing.QuoteStatusAccepted
	if !accept {
		target = billing.QuoteStatusRejected
	}
	return s.UpdateQuoteStatus(ctx, id, target)
}

func (s *QuoteService) DeleteQuote(ctx context.Context, id int) error {
	existing, err := s.QuoteRepo.Get(ctx, id)
	if err != nil {
		return errors.New("quote not found")
	}
	if existing.Status != billing.QuoteStatusDraft {
		return &billing.InvalidStateError{Kind: billing.KindQuote, Status: string(existing.Status), Op: "delete"}
	}
	return s.QuoteRepo.Delete(ctx, id)
}

// ExpireQuotes marks every sent quote whose valid_until has passed as
// expired. Called from the background sweep.
func (s *QuoteService) ExpireQuotes(ctx context.Context) (int, error) {
	now := timeutil.Now()
	candidates, err := s.QuoteRepo.ListExpirable(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, q := range candidates {
		if q.ValidUntil == nil || !billing.QuoteExpired(q.Status, *q.ValidUntil, now) {
			continue
		}
		if err := s.QuoteRepo.UpdateStatus(ctx, q.ID, billing.QuoteStatusExpired, nil); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// quoteConversionSource adapts a stored quote for invoice seeding.
func quoteConversionSource(q *models.Quote) billing.ConversionSource {
	return billing.ConversionSource{
		Items:        q.Items,
		TaxRate:      q.TaxRate,
		Discount:     q.Discount,
		DiscountType: q.DiscountType,
	}
}
