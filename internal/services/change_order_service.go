package services

import (
	"context"
	"errors"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/cache"
	"estimate-backend/internal/metrics"
	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/timeutil"
)

type ChangeOrderService struct {
	ChangeOrderRepo *repositories.ChangeOrderRepository
	ProjectRepo     *repositories.ProjectRepository
}

func NewChangeOrderService(changeOrderRepo *repositories.ChangeOrderRepository, projectRepo *repositories.ProjectRepository) *ChangeOrderService {
	return &ChangeOrderService{
		ChangeOrderRepo: changeOrderRepo,
		ProjectRepo:     projectRepo,
	}
}

func (s *ChangeOrderService) CreateChangeOrder(ctx context.Context, req *models.CreateChangeOrderRequest) (*models.ChangeOrder, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("change order must have at least one line item")
	}
	if req.Description == "" {
		return nil, errors.New("description is required")
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
	co := &models.ChangeOrder{
		ProjectID:      req.ProjectID,
		ClientID:       project.ClientID,
		Description:    req.Description,
		Reason:         req.Reason,
		Items:          billing.PriceItems(req.Items),
		TaxRate:        req.TaxRate,
		Discount:       req.Discount,
		DiscountType:   req.DiscountType,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.Tax,
		Total:          totals.Total,
		Status:         billing.ChangeOrderStatusPending,
		RequestedBy:    req.RequestedBy,
		RequestedDate:  now,
	}

	for attempt := 0; ; attempt++ {
		count, err := s.ChangeOrderRepo.CountByYear(ctx, now.Year())
		if err != nil {
			return nil, err
		}
		co.OrderNumber = billing.NextDocumentNumber(billing.KindChangeOrder, now.Year(), count)

		err = s.ChangeOrderRepo.Create(ctx, co)
		if err == nil {
			metrics.DocumentsCreated.WithLabelValues("change_order").Inc()
			cache.InvalidateDashboardCaches(ctx)
			return co, nil
		}
		if !repositories.IsUniqueViolation(err) || attempt >= 1 {
			return nil, err
		}
	}
}

func (s *ChangeOrderService) GetChangeOrder(ctx context.Context, id int) (*models.ChangeOrderWithDetails, error) {
	return s.ChangeOrderRepo.Get(ctx, id)
}

func (s *ChangeOrderService) ListChangeOrders(ctx context.Context) ([]*models.ChangeOrderWithDetails, error) {
	return s.ChangeOrderRepo.List(ctx)
}

func (s *ChangeOrderService) ListChangeOrdersByProject(ctx context.Context, projectID int) ([]*models.ChangeOrder, error) {
	return s.ChangeOrderRepo.ListByProject(ctx, projectID)
}

func (s *ChangeOrderService) ListChangeOrdersByClient(ctx context.Context, clientID int) ([]*models.ChangeOrder, error) {
	return s.ChangeOrderRepo.ListByClient(ctx, clientID)
}

// ApproveChangeOrder moves a pending change order to approved, stamping
// who signed off and when.
func (s *ChangeOrderService) ApproveChangeOrder(ctx context.Context, id int, approvedBy string) (*models.ChangeOrder, error) {
	existing, err := s.ChangeOrderRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("change order not found")
	}

	next, approvedAt, err := billing.ApproveChangeOrder(existing.Status, approvedBy, timeutil.Now())
	if err != nil {
		return nil, err
	}
	if err := s.ChangeOrderRepo.Approve(ctx, id, approvedBy, approvedAt); err != nil {
		return nil, err
	}

	existing.Status = next
	existing.ApprovedBy = approvedBy
	existing.ApprovedDate = &approvedAt
	cache.InvalidateDashboardCaches(ctx)
	return &existing.ChangeOrder, nil
}

func (s *ChangeOrderService) UpdateChangeOrderStatus(ctx context.Context, id int, req *models.UpdateChangeOrderStatusRequest) (*models.ChangeOrder, error) {
	if req.Status == billing.ChangeOrderStatusApproved {
		return s.ApproveChangeOrder(ctx, id, req.ApprovedBy)
	}

	existing, err := s.ChangeOrderRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("change order not found")
	}

	next, err := billing.TransitionChangeOrder(existing.Status, req.Status)
	if err != nil {
		return nil, err
	}
	if err := s.ChangeOrderRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	existing.Status = next
	cache.InvalidateDashboardCaches(ctx)
	return &existing.ChangeOrder, nil
}
