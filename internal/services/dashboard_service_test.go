package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func quoteWith(status billing.QuoteStatus, total string) *models.Quote {
	return &models.Quote{Status: status, Total: dec(total)}
}

func TestSummarizeQuotes(t *testing.T) {
	quotes := []*models.Quote{
		quoteWith(billing.QuoteStatusDraft, "1000"),
		quoteWith(billing.QuoteStatusSent, "2500"),
		quoteWith(billing.QuoteStatusSent, "1500.50"),
		quoteWith(billing.QuoteStatusAccepted, "9000"),
		quoteWith(billing.QuoteStatusAccepted, "3000"),
		quoteWith(billing.QuoteStatusRejected, "700"),
		quoteWith(billing.QuoteStatusExpired, "400"),
	}

	sum := SummarizeQuotes(quotes)

	if sum.Total != 7 || sum.Draft != 1 || sum.Sent != 2 || sum.Accepted != 2 || sum.Rejected != 1 || sum.Expired != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if !sum.PipelineValue.Equal(dec("4000.50")) {
		t.Fatalf("pipeline value expected 4000.50, got %s", sum.PipelineValue)
	}
	// 2 accepted of 4 decided
	if !sum.AcceptanceRate.Equal(dec("50")) {
		t.Fatalf("acceptance rate expected 50, got %s", sum.AcceptanceRate)
	}
}

func TestSummarizeQuotes_NoDecidedQuotes(t *testing.T) {
	sum := SummarizeQuotes([]*models.Quote{
		quoteWith(billing.QuoteStatusDraft, "100"),
		quoteWith(billing.QuoteStatusSent, "200"),
	})
	if !sum.AcceptanceRate.IsZero() {
		t.Fatalf("acceptance rate should be zero with no decided quotes, got %s", sum.AcceptanceRate)
	}
}

func invoiceWith(status billing.InvoiceStatus, total, paid string) *models.Invoice {
	t := dec(total)
	p := dec(paid)
	return &models.Invoice{Status: status, Total: t, AmountPaid: p, AmountDue: t.Sub(p)}
}

func TestSummarizeInvoices(t *testing.T) {
	invoices := []*models.Invoice{
		invoiceWith(billing.InvoiceStatusDraft, "5000", "0"),
		invoiceWith(billing.InvoiceStatusCancelled, "800", "0"),
		invoiceWith(billing.InvoiceStatusSent, "1000", "0"),
		invoiceWith(billing.InvoiceStatusPartial, "2000", "500"),
		invoiceWith(billing.InvoiceStatusOverdue, "3000", "1000"),
		invoiceWith(billing.InvoiceStatusPaid, "4000", "4000"),
	}

	sum := SummarizeInvoices(invoices)

	if sum.Total != 6 || sum.Draft != 1 || sum.Outstanding != 3 || sum.Overdue != 1 || sum.Paid != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	// Draft and cancelled invoices are excluded from the money totals
	if !sum.TotalBilled.Equal(dec("10000")) {
		t.Fatalf("total billed expected 10000, got %s", sum.TotalBilled)
	}
	if !sum.TotalCollected.Equal(dec("5500")) {
		t.Fatalf("total collected expected 5500, got %s", sum.TotalCollected)
	}
	if !sum.TotalOutstanding.Equal(dec("4500")) {
		t.Fatalf("total outstanding expected 4500, got %s", sum.TotalOutstanding)
	}
	if !sum.OverdueAmount.Equal(dec("2000")) {
		t.Fatalf("overdue amount expected 2000, got %s", sum.OverdueAmount)
	}
}

func TestRevenueTrend(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	mkInvoice := func(status billing.InvoiceStatus, created time.Time, total, paid string) *models.Invoice {
		inv := invoiceWith(status, total, paid)
		inv.CreatedAt = created
		return inv
	}

	invoices := []*models.Invoice{
		mkInvoice(billing.InvoiceStatusPaid, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), "1000", "1000"),
		mkInvoice(billing.InvoiceStatusSent, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), "500", "0"),
		mkInvoice(billing.InvoiceStatusPartial, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "2000", "750"),
		// Draft invoices never count
		mkInvoice(billing.InvoiceStatusDraft, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), "9999", "0"),
		// Outside the window
		mkInvoice(billing.InvoiceStatusPaid, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), "1234", "1234"),
	}

	trend := RevenueTrend(invoices, now, 3)

	if len(trend) != 3 {
		t.Fatalf("expected 3 months, got %d", len(trend))
	}
	if trend[0].Month != "2026-01" || trend[1].Month != "2026-02" || trend[2].Month != "2026-03" {
		t.Fatalf("unexpected months: %s %s %s", trend[0].Month, trend[1].Month, trend[2].Month)
	}
	if !trend[0].Billed.Equal(dec("1500")) || !trend[0].Collected.Equal(dec("1000")) {
		t.Fatalf("january expected 1500/1000, got %s/%s", trend[0].Billed, trend[0].Collected)
	}
	if !trend[1].Billed.IsZero() || !trend[1].Collected.IsZero() {
		t.Fatalf("february should be zero, got %s/%s", trend[1].Billed, trend[1].Collected)
	}
	if !trend[2].Billed.Equal(dec("2000")) || !trend[2].Collected.Equal(dec("750")) {
		t.Fatalf("march expected 2000/750, got %s/%s", trend[2].Billed, trend[2].Collected)
	}
}

func TestRevenueTrend_ZeroMonths(t *testing.T) {
	if trend := RevenueTrend(nil, time.Now(), 0); trend != nil {
		t.Fatalf("expected nil trend, got %v", trend)
	}
}

func TestRankProjectRisk(t *testing.T) {
	mkProject := func(id int, name string) *models.ProjectWithClient {
		return &models.ProjectWithClient{Project: models.Project{ID: id, Name: name}}
	}
	mkInvoice := func(projectID int, status billing.InvoiceStatus, total, paid string) *models.Invoice {
		inv := invoiceWith(status, total, paid)
		inv.ProjectID = projectID
		return inv
	}

	projects := []*models.ProjectWithClient{
		mkProject(1, "Kitchen remodel"),
		mkProject(2, "Office repaint"),
		mkProject(3, "Warehouse floor"),
	}
	invoices := []*models.Invoice{
		mkInvoice(1, billing.InvoiceStatusOverdue, "3000", "1000"),
		mkInvoice(1, billing.InvoiceStatusOverdue, "500", "0"),
		mkInvoice(2, billing.InvoiceStatusPaid, "2000", "2000"),
		mkInvoice(3, billing.InvoiceStatusOverdue, "800", "0"),
	}
	changeOrders := []*models.ChangeOrder{
		{ProjectID: 2, Status: billing.ChangeOrderStatusPending},
		{ProjectID: 3, Status: billing.ChangeOrderStatusApproved},
	}

	ranked := RankProjectRisk(projects, invoices, changeOrders)

	// Project 2 has no overdue billing but a pending change order; the
	// healthy part of project 2 must not hide it.
	if len(ranked) != 3 {
		t.Fatalf("expected 3 at-risk projects, got %d", len(ranked))
	}
	if ranked[0].ProjectID != 1 || ranked[0].Score != 4 {
		t.Fatalf("expected project 1 first with score 4, got %+v", ranked[0])
	}
	if !ranked[0].OverdueAmount.Equal(dec("2500")) {
		t.Fatalf("project 1 overdue amount expected 2500, got %s", ranked[0].OverdueAmount)
	}
	if ranked[1].ProjectID != 3 || ranked[1].Score != 2 {
		t.Fatalf("expected project 3 second with score 2, got %+v", ranked[1])
	}
	if ranked[2].ProjectID != 2 || ranked[2].Score != 1 || ranked[2].PendingChangeOrders != 1 {
		t.Fatalf("expected project 2 third with score 1, got %+v", ranked[2])
	}
}

func TestRankProjectRisk_AllHealthy(t *testing.T) {
	projects := []*models.ProjectWithClient{
		{Project: models.Project{ID: 1, Name: "Deck build"}},
	}
	invoices := []*models.Invoice{}
	if ranked := RankProjectRisk(projects, invoices, nil); len(ranked) != 0 {
		t.Fatalf("expected no at-risk projects, got %d", len(ranked))
	}
}
