package services

import (
	"context"
	"log"
	"time"

	"estimate-backend/internal/cache"
)

// SweepService periodically expires stale quotes and flags overdue
// invoices so statuses stay truthful without manual intervention.
type SweepService struct {
	Quotes   *QuoteService
	Invoices *InvoiceService
	Interval time.Duration
}

func NewSweepService(quotes *QuoteService, invoices *InvoiceService, interval time.Duration) *SweepService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweepService{
		Quotes:   quotes,
		Invoices: invoices,
		Interval: interval,
	}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
// Call in a goroutine at startup.
func (s *SweepService) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SweepService) sweep(ctx context.Context) {
	expired, err := s.Quotes.ExpireQuotes(ctx)
	if err != nil {
		log.Printf("[Sweep] Quote expiry failed: %v", err)
	} else if expired > 0 {
		log.Printf("[Sweep] Expired %d quotes", expired)
	}

	overdue, err := s.Invoices.MarkOverdueInvoices(ctx)
	if err != nil {
		log.Printf("[Sweep] Overdue marking failed: %v", err)
	} else if overdue > 0 {
		log.Printf("[Sweep] Marked %d invoices overdue", overdue)
	}

	if expired > 0 || overdue > 0 {
		cache.InvalidateDashboardCaches(ctx)
	}
}
