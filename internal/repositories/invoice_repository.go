package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `i.id, i.invoice_number, i.project_id, i.client_id, i.created_by_id,
	i.quote_id, i.change_order_id, i.items::text, i.tax_rate::text, i.discount::text, i.discount_type,
	i.subtotal::text, i.discount_amount::text, i.tax_amount::text, i.total::text,
	i.amount_paid::text, i.amount_due::text, i.status, i.notes, i.due_date, i.created_at, i.updated_at`

func scanInvoice(row rowScanner, inv *models.Invoice, extra ...any) error {
	var items, taxRate, discount, discountType, subtotal, discountAmount, taxAmount, total, amountPaid, amountDue, status string
	dest := []any{&inv.ID, &inv.InvoiceNumber, &inv.ProjectID, &inv.ClientID, &inv.CreatedByID,
		&inv.QuoteID, &inv.ChangeOrderID, &items, &taxRate, &discount, &discountType,
		&subtotal, &discountAmount, &taxAmount, &total,
		&amountPaid, &amountDue, &status, &inv.Notes, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}

	var err error
	if inv.Items, err = billing.DecodeItems([]byte(items)); err != nil {
		return err
	}
	if inv.TaxRate, err = parseDecimal(taxRate); err != nil {
		return err
	}
	if inv.Discount, err = parseDecimal(discount); err != nil {
		return err
	}
	if inv.Subtotal, err = parseDecimal(subtotal); err != nil {
		return err
	}
	if inv.DiscountAmount, err = parseDecimal(discountAmount); err != nil {
		return err
	}
	if inv.TaxAmount, err = parseDecimal(taxAmount); err != nil {
		return err
	}
	if inv.Total, err = parseDecimal(total); err != nil {
		return err
	}
	if inv.AmountPaid, err = parseDecimal(amountPaid); err != nil {
		return err
	}
	if inv.AmountDue, err = parseDecimal(amountDue); err != nil {
		return err
	}
	inv.DiscountType = billing.DiscountType(discountType)
	inv.Status = billing.InvoiceStatus(status)
	return nil
}

func (r *InvoiceRepository) CountByYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE EXTRACT(YEAR FROM created_at) = $1`, year,
	).Scan(&count)
	return count, err
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	items, err := billing.EncodeItems(inv.Items)
	if err != nil {
		return err
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO invoices(invoice_number, project_id, client_id, created_by_id, quote_id, change_order_id,
		        items, tax_rate, discount, discount_type, subtotal, discount_amount, tax_amount, total,
		        amount_paid, amount_due, status, notes, due_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING id, created_at, updated_at`,
		inv.InvoiceNumber, inv.ProjectID, inv.ClientID, inv.CreatedByID, inv.QuoteID, inv.ChangeOrderID,
		string(items), inv.TaxRate.String(), inv.Discount.String(), string(inv.DiscountType),
		inv.Subtotal.String(), inv.DiscountAmount.String(), inv.TaxAmount.String(), inv.Total.String(),
		inv.AmountPaid.String(), inv.AmountDue.String(), string(inv.Status), inv.Notes, inv.DueDate,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.InvoiceWithDetails, error) {
	var inv models.InvoiceWithDetails
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+`,
		        COALESCE(c.name, '') as client_name, COALESCE(p.name, '') as project_name
		 FROM invoices i
		 LEFT JOIN clients c ON i.client_id = c.id
		 LEFT JOIN projects p ON i.project_id = p.id
		 WHERE i.id = $1`, id)
	if err := scanInvoice(row, &inv.Invoice, &inv.ClientName, &inv.ProjectName); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByQuoteID finds the invoice converted from a quote, if any. Used to
// prevent double conversion.
func (r *InvoiceRepository) GetByQuoteID(ctx context.Context, quoteID int) (*models.Invoice, error) {
	var inv models.Invoice
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.quote_id = $1`, quoteID)
	if err := scanInvoice(row, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByChangeOrderID(ctx context.Context, changeOrderID int) (*models.Invoice, error) {
	var inv models.Invoice
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.change_order_id = $1`, changeOrderID)
	if err := scanInvoice(row, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*models.InvoiceWithDetails, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+`,
		        COALESCE(c.name, '') as client_name, COALESCE(p.name, '') as project_name
		 FROM invoices i
		 LEFT JOIN clients c ON i.client_id = c.id
		 LEFT JOIN projects p ON i.project_id = p.id
		 ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.InvoiceWithDetails
	for rows.Next() {
		var inv models.InvoiceWithDetails
		if err := scanInvoice(rows, &inv.Invoice, &inv.ClientName, &inv.ProjectName); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID int) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.client_id = $1 ORDER BY i.created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID int) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.project_id = $1 ORDER BY i.created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int, status billing.InvoiceStatus) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	return err
}

// RecordPayment persists a payment and the invoice's new payment position
// in one transaction so the amounts and the payment row can never diverge.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, invoiceID int, state billing.PaymentState, payment *models.InvoicePayment) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE invoices SET amount_paid = $1, amount_due = $2, status = $3, updated_at = NOW()
		 WHERE id = $4`,
		state.AmountPaid.String(), state.AmountDue.String(), string(state.Status), invoiceID)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO invoice_payments(invoice_id, amount, method, reference, notes, recorded_by_user_id)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		invoiceID, payment.Amount.String(), payment.Method, payment.Reference, payment.Notes, payment.RecordedByUserID,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *InvoiceRepository) ListPayments(ctx context.Context, invoiceID int) ([]*models.InvoicePayment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, amount::text, method, reference, notes, recorded_by_user_id, created_at
		 FROM invoice_payments WHERE invoice_id = $1 ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.InvoicePayment
	for rows.Next() {
		var p models.InvoicePayment
		var amount string
		err := rows.Scan(&p.ID, &p.InvoiceID, &amount, &p.Method, &p.Reference, &p.Notes, &p.RecordedByUserID, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		if p.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// ListOverdueCandidates returns unpaid invoices past their due date, for the
// background overdue sweep.
func (r *InvoiceRepository) ListOverdueCandidates(ctx context.Context, now time.Time) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+`
		 FROM invoices i
		 WHERE i.status IN ('sent', 'viewed', 'partial') AND i.due_date IS NOT NULL AND i.due_date < $1
		   AND i.amount_due > 0`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}
