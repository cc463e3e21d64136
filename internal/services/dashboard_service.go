package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/cache"
	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
	"estimate-backend/internal/timeutil"
)

type DashboardService struct {
	QuoteRepo       *repositories.QuoteRepository
	InvoiceRepo     *repositories.InvoiceRepository
	ChangeOrderRepo *repositories.ChangeOrderRepository
	ProjectRepo     *repositories.ProjectRepository
}

func NewDashboardService(
	quoteRepo *repositories.QuoteRepository,
	invoiceRepo *repositories.InvoiceRepository,
	changeOrderRepo *repositories.ChangeOrderRepository,
	projectRepo *repositories.ProjectRepository,
) *DashboardService {
	return &DashboardService{
		QuoteRepo:       quoteRepo,
		InvoiceRepo:     invoiceRepo,
		ChangeOrderRepo: changeOrderRepo,
		ProjectRepo:     projectRepo,
	}
}

// QuoteSummary aggregates the quote pipeline
type QuoteSummary struct {
	Total          int             `json:"total"`
	Draft          int             `json:"draft"`
	Sent           int             `json:"sent"`
	Accepted       int             `json:"accepted"`
	Rejected       int             `json:"rejected"`
	Expired        int             `json:"expired"`
	AcceptanceRate decimal.Decimal `json:"acceptance_rate"` // percent of decided quotes
	PipelineValue  decimal.Decimal `json:"pipeline_value"`  // value of sent quotes
}

// InvoiceSummary aggregates billing and collections
type InvoiceSummary struct {
	Total            int             `json:"total"`
	Draft            int             `json:"draft"`
	Outstanding      int             `json:"outstanding"` // sent + partial + overdue
	Overdue          int             `json:"overdue"`
	Paid             int             `json:"paid"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
}

// MonthRevenue is one month of collections for the trend chart
type MonthRevenue struct {
	Month     string          `json:"month"` // "2026-01"
	Billed    decimal.Decimal `json:"billed"`
	Collected decimal.Decimal `json:"collected"`
}

// ProjectRisk flags a project that needs attention
type ProjectRisk struct {
	ProjectID           int             `json:"project_id"`
	ProjectName         string          `json:"project_name"`
	OverdueInvoices     int             `json:"overdue_invoices"`
	OverdueAmount       decimal.Decimal `json:"overdue_amount"`
	PendingChangeOrders int             `json:"pending_change_orders"`
	Score               int             `json:"score"`
}

// DashboardSummary is the staff dashboard payload
type DashboardSummary struct {
	Quotes              QuoteSummary   `json:"quotes"`
	Invoices            InvoiceSummary `json:"invoices"`
	PendingChangeOrders int            `json:"pending_change_orders"`
	ActiveProjects      int            `json:"active_projects"`
	RevenueTrend        []MonthRevenue `json:"revenue_trend"`
	AtRiskProjects      []ProjectRisk  `json:"at_risk_projects"`
	GeneratedAt         time.Time      `json:"generated_at"`
}

const dashboardCacheTTL = 5 * time.Minute

// GetSummary assembles the staff dashboard, serving from cache when warm.
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	if data, ok := cache.GetCached(ctx, cache.DashboardSummaryKey); ok {
		var summary DashboardSummary
		if err := json.Unmarshal(data, &summary); err == nil {
			return &summary, nil
		}
	}

	quotes, err := s.QuoteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	invoices, err := s.InvoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	changeOrders, err := s.ChangeOrderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list change orders: %w", err)
	}
	projects, err := s.ProjectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	quoteModels := make([]*models.Quote, len(quotes))
	for i := range quotes {
		quoteModels[i] = &quotes[i].Quote
	}
	invoiceModels := make([]*models.Invoice, len(invoices))
	for i := range invoices {
		invoiceModels[i] = &invoices[i].Invoice
	}

	coModels := make([]*models.ChangeOrder, len(changeOrders))
	for i := range changeOrders {
		coModels[i] = &changeOrders[i].ChangeOrder
	}

	pendingCO := 0
	for _, co := range changeOrders {
		if co.Status == billing.ChangeOrderStatusPending {
			pendingCO++
		}
	}
	activeProjects := 0
	for _, p := range projects {
		if p.Status == models.ProjectStatusInProgress {
			activeProjects++
		}
	}

	summary := &DashboardSummary{
		Quotes:              SummarizeQuotes(quoteModels),
		Invoices:            SummarizeInvoices(invoiceModels),
		PendingChangeOrders: pendingCO,
		ActiveProjects:      activeProjects,
		RevenueTrend:        RevenueTrend(invoiceModels, timeutil.Now(), 6),
		AtRiskProjects:      RankProjectRisk(projects, invoiceModels, coModels),
		GeneratedAt:         timeutil.Now(),
	}

	if data, err := json.Marshal(summary); err == nil {
		cache.SetCached(ctx, cache.DashboardSummaryKey, data, dashboardCacheTTL)
	}
	return summary, nil
}

// SummarizeQuotes computes the quote pipeline aggregates.
func SummarizeQuotes(quotes []*models.Quote) QuoteSummary {
	sum := QuoteSummary{
		Total:          len(quotes),
		AcceptanceRate: decimal.Zero,
		PipelineValue:  decimal.Zero,
	}
	for _, q := range quotes {
		switch q.Status {
		case billing.QuoteStatusDraft:
			sum.Draft++
		case billing.QuoteStatusSent:
			sum.Sent++
			sum.PipelineValue = sum.PipelineValue.Add(q.Total)
		case billing.QuoteStatusAccepted:
			sum.Accepted++
		case billing.QuoteStatusRejected:
			sum.Rejected++
		case billing.QuoteStatusExpired:
			sum.Expired++
		}
	}

	decided := sum.Accepted + sum.Rejected + sum.Expired
	if decided > 0 {
		sum.AcceptanceRate = decimal.NewFromInt(int64(sum.Accepted)).
			Div(decimal.NewFromInt(int64(decided))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}
	return sum
}

// SummarizeInvoices computes billing and collection aggregates. Draft and
// cancelled invoices carry no financial weight.
func SummarizeInvoices(invoices []*models.Invoice) InvoiceSummary {
	sum := InvoiceSummary{
		Total:            len(invoices),
		TotalBilled:      decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		OverdueAmount:    decimal.Zero,
	}
	for _, inv := range invoices {
		switch inv.Status {
		case billing.InvoiceStatusDraft:
			sum.Draft++
			continue
		case billing.InvoiceStatusCancelled:
			continue
		case billing.InvoiceStatusSent, billing.InvoiceStatusPartial:
			sum.Outstanding++
		case billing.InvoiceStatusOverdue:
			sum.Outstanding++
			sum.Overdue++
			sum.OverdueAmount = sum.OverdueAmount.Add(inv.AmountDue)
		case billing.InvoiceStatusPaid:
			sum.Paid++
		}
		sum.TotalBilled = sum.TotalBilled.Add(inv.Total)
		sum.TotalCollected = sum.TotalCollected.Add(inv.AmountPaid)
		sum.TotalOutstanding = sum.TotalOutstanding.Add(inv.AmountDue)
	}
	return sum
}

// RankProjectRisk scores each project by overdue invoices and pending
// change orders. Overdue billing weighs double. Only projects with a
// nonzero score are returned, highest score first (ties by project ID for
// a stable order).
func RankProjectRisk(projects []*models.ProjectWithClient, invoices []*models.Invoice, changeOrders []*models.ChangeOrder) []ProjectRisk {
	byProject := make(map[int]*ProjectRisk, len(projects))
	for _, p := range projects {
		byProject[p.ID] = &ProjectRisk{
			ProjectID:     p.ID,
			ProjectName:   p.Name,
			OverdueAmount: decimal.Zero,
		}
	}

	for _, inv := range invoices {
		if inv.Status != billing.InvoiceStatusOverdue {
			continue
		}
		if r, ok := byProject[inv.ProjectID]; ok {
			r.OverdueInvoices++
			r.OverdueAmount = r.OverdueAmount.Add(inv.AmountDue)
		}
	}
	for _, co := range changeOrders {
		if co.Status != billing.ChangeOrderStatusPending {
			continue
		}
		if r, ok := byProject[co.ProjectID]; ok {
			r.PendingChangeOrders++
		}
	}

	ranked := make([]ProjectRisk, 0, len(byProject))
	for _, r := range byProject {
		r.Score = 2*r.OverdueInvoices + r.PendingChangeOrders
		if r.Score > 0 {
			ranked = append(ranked, *r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ProjectID < ranked[j].ProjectID
	})
	return ranked
}

// RevenueTrend buckets invoice totals and collections by calendar month,
// returning the last n months ending at now. Months with no activity
// appear with zero values so charts stay contiguous.
func RevenueTrend(invoices []*models.Invoice, now time.Time, months int) []MonthRevenue {
	if months <= 0 {
		return nil
	}

	trend := make([]MonthRevenue, months)
	index := make(map[string]int, months)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		trend[i] = MonthRevenue{Month: key, Billed: decimal.Zero, Collected: decimal.Zero}
		index[key] = i
	}

	for _, inv := range invoices {
		if inv.Status == billing.InvoiceStatusDraft || inv.Status == billing.InvoiceStatusCancelled {
			continue
		}
		key := inv.CreatedAt.In(now.Location()).Format("2006-01")
		i, ok := index[key]
		if !ok {
			continue
		}
		trend[i].Billed = trend[i].Billed.Add(inv.Total)
		trend[i].Collected = trend[i].Collected.Add(inv.AmountPaid)
	}
	return trend
}
