package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
)

type ClientPortalService struct {
	ClientRepo      *repositories.ClientRepository
	ProjectRepo     *repositories.ProjectRepository
	QuoteRepo       *repositories.QuoteRepository
	InvoiceRepo     *repositories.InvoiceRepository
	ChangeOrderRepo *repositories.ChangeOrderRepository
}

func NewClientPortalService(
	clientRepo *repositories.ClientRepository,
	projectRepo *repositories.ProjectRepository,
	quoteRepo *repositories.QuoteRepository,
	invoiceRepo *repositories.InvoiceRepository,
	changeOrderRepo *repositories.ChangeOrderRepository,
) *ClientPortalService {
	return &ClientPortalService{
		ClientRepo:      clientRepo,
		ProjectRepo:     projectRepo,
		QuoteRepo:       quoteRepo,
		InvoiceRepo:     invoiceRepo,
		ChangeOrderRepo: changeOrderRepo,
	}
}

// PortalDashboard is everything a client sees on their portal home page
type PortalDashboard struct {
	Client           *models.Client        `json:"client"`
	Projects         []*models.Project     `json:"projects"`
	Quotes           []*models.Quote       `json:"quotes"`
	Invoices         []*models.Invoice     `json:"invoices"`
	ChangeOrders     []*models.ChangeOrder `json:"change_orders"`
	TotalBilled      decimal.Decimal       `json:"total_billed"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	PendingQuotes    int                   `json:"pending_quotes"`
	OverdueInvoices  int                   `json:"overdue_invoices"`
}

// GetDashboard assembles the portal home page for one client.
func (s *ClientPortalService) GetDashboard(ctx context.Context, clientID int) (*PortalDashboard, error) {
	client, err := s.ClientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	projects, err := s.ProjectRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	quotes, err := s.QuoteRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}
	invoices, err := s.InvoiceRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoices: %w", err)
	}
	changeOrders, err := s.ChangeOrderRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get change orders: %w", err)
	}

	dash := &PortalDashboard{
		Client:           client,
		Projects:         projects,
		Quotes:           quotes,
		Invoices:         invoices,
		ChangeOrders:     changeOrders,
		TotalBilled:      decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	for _, q := range quotes {
		if q.Status == "sent" {
			dash.PendingQuotes++
		}
	}
	for _, inv := range invoices {
		switch inv.Status {
		case "draft", "cancelled":
			continue
		case "overdue":
			dash.OverdueInvoices++
		}
		dash.TotalBilled = dash.TotalBilled.Add(inv.Total)
		dash.TotalPaid = dash.TotalPaid.Add(inv.AmountPaid)
		dash.TotalOutstanding = dash.TotalOutstanding.Add(inv.AmountDue)
	}

	return dash, nil
}

// GetProject returns one project for a client, enforcing ownership.
func (s *ClientPortalService) GetProject(ctx context.Context, clientID, projectID int) (*models.ProjectWithClient, error) {
	project, err := s.ProjectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project.ClientID != clientID {
		return nil, fmt.Errorf("project %d does not belong to client %d", projectID, clientID)
	}
	return project, nil
}
