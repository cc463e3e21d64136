package services

import (
	"context"
	"testing"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/models"
)

// The list methods return repository rows as-is.
var (
	_ func(context.Context, int) ([]*models.Quote, error) = (*QuoteService)(nil).ListQuotesByProject
	_ func(context.Context, int) ([]*models.Quote, error) = (*QuoteService)(nil).ListQuotesByClient
)

func TestMarkViewedByClient_OnlySentQuotes(t *testing.T) {
	svc := &QuoteService{}

	for _, status := range []billing.QuoteStatus{
		billing.QuoteStatusDraft,
		billing.QuoteStatusViewed,
		billing.QuoteStatusAccepted,
		billing.QuoteStatusRejected,
		billing.QuoteStatusExpired,
	} {
		q := &models.QuoteWithDetails{Quote: models.Quote{ID: 7, Status: status}}
		svc.MarkViewedByClient(context.Background(), q)
		if q.Status != status {
			t.Fatalf("status %s must not change on view", status)
		}
	}
}
