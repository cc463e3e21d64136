package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/models"
)

type QuoteRepository struct {
	DB *pgxpool.Pool
}

func NewQuoteRepository(db *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{DB: db}
}

const quoteColumns = `q.id, q.quote_number, q.project_id, q.client_id, q.created_by_id,
	q.items::text, q.tax_rate::text, q.discount::text, q.discount_type,
	q.subtotal::text, q.discount_amount::text, q.tax_amount::text, q.total::text,
	q.status, q.notes, q.terms, q.valid_until, q.accepted_at, q.created_at, q.updated_at`

func scanQuote(row rowScanner, q *models.Quote, extra ...any) error {
	var items, taxRate, discount, discountType, subtotal, discountAmount, taxAmount, total, status string
	dest := []any{&q.ID, &q.QuoteNumber, &q.ProjectID, &q.ClientID, &q.CreatedByID,
		&items, &taxRate, &discount, &discountType,
		&subtotal, &discountAmount, &taxAmount, &total,
		&status, &q.Notes, &q.Terms, &q.ValidUntil, &q.AcceptedAt, &q.CreatedAt, &q.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}

	var err error
	if q.Items, err = billing.DecodeItems([]byte(items)); err != nil {
		return err
	}
	if q.TaxRate, err = parseDecimal(taxRate); err != nil {
		return err
	}
	if q.Discount, err = parseDecimal(discount); err != nil {
		return err
	}
	if q.Subtotal, err = parseDecimal(subtotal); err != nil {
		return err
	}
	if q.DiscountAmount, err = parseDecimal(discountAmount); err != nil {
		return err
	}
	if q.TaxAmount, err = parseDecimal(taxAmount); err != nil {
		return err
	}
	if q.Total, err = parseDecimal(total); err != nil {
		return err
	}
	q.DiscountType = billing.DiscountType(discountType)
	q.Status = billing.QuoteStatus(status)
	return nil
}

// CountByYear returns how many quotes exist for a calendar year. The count
// feeds the document-number generator; Create holds the unique index that
// catches a stale count.
func (r *QuoteRepository) CountByYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM quotes WHERE EXTRACT(YEAR FROM created_at) = $1`, year,
	).Scan(&count)
	return count, err
}

func (r *QuoteRepository) Create(ctx context.Context, q *models.Quote) error {
	items, err := billing.EncodeItems(q.Items)
	if err != nil {
		return err
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO quotes(quote_number, project_id, client_id, created_by_id, items,
		        tax_rate, discount, discount_type, subtotal, discount_amount, tax_amount, total,
		        status, notes, terms, valid_until)
		 VALUES($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`,
		q.QuoteNumber, q.ProjectID, q.ClientID, q.CreatedByID, string(items),
		q.TaxRate.String(), q.Discount.String(), string(q.DiscountType),
		q.Subtotal.String(), q.DiscountAmount.String(), q.TaxAmount.String(), q.Total.String(),
		string(q.Status), q.Notes, q.Terms, q.ValidUntil,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *QuoteRepository) Get(ctx context.Context, id int) (*models.QuoteWithDetails, error) {
	var q models.QuoteWithDetails
	row := r.DB.QueryRow(ctx,
		`SELECT `+quoteColumns+`,
		        COALESCE(c.name, '') as client_name, COALESCE(p.name, '') as project_name
		 FROM quotes q
		 LEFT JOIN clients c ON q.client_id = c.id
		 LEFT JOIN projects p ON q.project_id = p.id
		 WHERE q.id = $1`, id)
	if err := scanQuote(row, &q.Quote, &q.ClientName, &q.ProjectName); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuoteRepository) List(ctx context.Context) ([]*models.QuoteWithDetails, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+quoteColumns+`,
		        COALESCE(c.name, '') as client_name, COALESCE(p.name, '') as project_name
		 FROM quotes q
		 LEFT JOIN clients c ON q.client_id = c.id
		 LEFT JOIN projects p ON q.project_id = p.id
		 ORDER BY q.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.QuoteWithDetails
	for rows.Next() {
		var q models.QuoteWithDetails
		if err := scanQuote(rows, &q.Quote, &q.ClientName, &q.ProjectName); err != nil {
			return nil, err
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

func (r *QuoteRepository) ListByClient(ctx context.Context, clientID int) ([]*models.Quote, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+quoteColumns+` FROM quotes q WHERE q.client_id = $1 ORDER BY q.created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		var q models.Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, err
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

func (r *QuoteRepository) ListByProject(ctx context.Context, projectID int) ([]*models.Quote, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+quoteColumns+` FROM quotes q WHERE q.project_id = $1 ORDER BY q.created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		var q models.Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, err
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

// UpdateContent rewrites a draft quote's items and recomputed totals
func (r *QuoteRepository) UpdateContent(ctx context.Context, q *models.Quote) error {
	items, err := billing.EncodeItems(q.Items)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx,
		`UPDATE quotes SET items = $1::jsonb, tax_rate = $2, discount = $3, discount_type = $4,
		        subtotal = $5, discount_amount = $6, tax_amount = $7, total = $8,
		        notes = $9, terms = $10, valid_until = $11, updated_at = NOW()
		 WHERE id = $12`,
		string(items), q.TaxRate.String(), q.Discount.String(), string(q.DiscountType),
		q.Subtotal.String(), q.DiscountAmount.String(), q.TaxAmount.String(), q.Total.String(),
		q.Notes, q.Terms, q.ValidUntil, q.ID)
	return err
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id int, status billing.QuoteStatus, acceptedAt *time.Time) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE quotes SET status = $1, accepted_at = COALESCE($2, accepted_at), updated_at = NOW()
		 WHERE id = $3`,
		string(status), acceptedAt, id)
	return err
}

// ListExpirable returns sent/viewed quotes whose validity window has passed,
// for the background expiry sweep.
func (r *QuoteRepository) ListExpirable(ctx context.Context, now time.Time) ([]*models.Quote, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+quoteColumns+`
		 FROM quotes q
		 WHERE q.status IN ('sent', 'viewed') AND q.valid_until IS NOT NULL AND q.valid_until < $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		var q models.Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, err
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

func (r *QuoteRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	return err
}
