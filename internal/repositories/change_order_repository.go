package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/billing"
	"estimate-backend/internal/models"
)

type ChangeOrderRepository struct {
	DB *pgxpool.Pool
}

func NewChangeOrderRepository(db *pgxpool.Pool) *ChangeOrderRepository {
	return &ChangeOrderRepository{DB: db}
}

const changeOrderColumns = `co.id, co.order_number, co.project_id, co.client_id, co.description, co.reason,
	co.items::text, co.tax_rate::text, co.discount::text, co.discount_type,
	co.subtotal::text, co.discount_amount::text, co.tax_amount::text, co.total::text,
	co.status, co.requested_by, co.requested_date, COALESCE(co.approved_by, ''), co.approved_date,
	co.invoice_id, co.created_at, co.updated_at`

func scanChangeOrder(row rowScanner, co *models.ChangeOrder, extra ...any) error {
	var items, taxRate, discount, discountType, subtotal, discountAmount, taxAmount, total, status string
	dest := []any{&co.ID, &co.OrderNumber, &co.ProjectID, &co.ClientID, &co.Description, &co.Reason,
		&items, &taxRate, &discount, &discountType,
		&subtotal, &discountAmount, &taxAmount, &total,
		&status, &co.RequestedBy, &co.RequestedDate, &co.ApprovedBy, &co.ApprovedDate,
		&co.InvoiceID, &co.CreatedAt, &co.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}

	var err error
	if co.Items, err = billing.DecodeItems([]byte(items)); err != nil {
		return err
	}
	if co.TaxRate, err = parseDecimal(taxRate); err != nil {
		return err
	}
	if co.Discount, err = parseDecimal(discount); err != nil {
		return err
	}
	if co.Subtotal, err = parseDecimal(subtotal); err != nil {
		return err
	}
	if co.DiscountAmount, err = parseDecimal(discountAmount); err != nil {
		return err
	}
	if co.TaxAmount, err = parseDecimal(taxAmount); err != nil {
		return err
	}
	if co.Total, err = parseDecimal(total); err != nil {
		return err
	}
	co.DiscountType = billing.DiscountType(discountType)
	co.Status = billing.ChangeOrderStatus(status)
	return nil
}

func (r *ChangeOrderRepository) CountByYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM change_orders WHERE EXTRACT(YEAR FROM created_at) = $1`, year,
	).Scan(&count)
	return count, err
}

func (r *ChangeOrderRepository) Create(ctx context.Context, co *models.ChangeOrder) error {
	items, err := billing.EncodeItems(co.Items)
	if err != nil {
		return err
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO change_orders(order_number, project_id, client_id, description, reason, items,
		        tax_rate, discount, discount_type, subtotal, discount_amount, tax_amount, total,
		        status, requested_by, requested_date)
		 VALUES($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`,
		co.OrderNumber, co.ProjectID, co.ClientID, co.Description, co.Reason, string(items),
		co.TaxRate.String(), co.Discount.String(), string(co.DiscountType),
		co.Subtotal.String(), co.DiscountAmount.String(), co.TaxAmount.String(), co.Total.String(),
		string(co.Status), co.RequestedBy, co.RequestedDate,
	).Scan(&co.ID, &co.CreatedAt, &co.UpdatedAt)
}

func (r *ChangeOrderRepository) Get(ctx context.Context, id int) (*models.ChangeOrderWithDetails, error) {
	var co models.ChangeOrderWithDetails
	row := r.DB.QueryRow(ctx,
		`SELECT `+changeOrderColumns+`,
		        COALESCE(c.name, '') as client_name, COALESCE(p.name, '') as project_name
		 FROM change_orders co
		 LEFT JOIN clients c ON co.client_id = c.id
		 LEFT JOIN projects p ON co.project_id = p.id
		 WHERE co.id = $1`, id)
	if err := scanChangeOrder(row, &co.ChangeOrder, &co.ClientName, &co.ProjectName); err != nil {
		return nil, err
	}
	return &co, nil
}

func (r *ChangeOrderRepository) List(ctx context.Context) ([]*models.ChangeOrderWithDetails, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+changeOrderColumns+`,
		        COALESCE(c.name, '') as client_name, COALESCE(p.name, '') as project_name
		 FROM change_orders co
		 LEFT JOIN clients c ON co.client_id = c.id
		 LEFT JOIN projects p ON co.project_id = p.id
		 ORDER BY co.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.ChangeOrderWithDetails
	for rows.Next() {
		var co models.ChangeOrderWithDetails
		if err := scanChangeOrder(rows, &co.ChangeOrder, &co.ClientName, &co.ProjectName); err != nil {
			return nil, err
		}
		orders = append(orders, &co)
	}
	return orders, rows.Err()
}

func (r *ChangeOrderRepository) ListByProject(ctx context.Context, projectID int) ([]*models.ChangeOrder, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+changeOrderColumns+` FROM change_orders co WHERE co.project_id = $1 ORDER BY co.created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.ChangeOrder
	for rows.Next() {
		var co models.ChangeOrder
		if err := scanChangeOrder(rows, &co); err != nil {
			return nil, err
		}
		orders = append(orders, &co)
	}
	return orders, rows.Err()
}

func (r *ChangeOrderRepository) ListByClient(ctx context.Context, clientID int) ([]*models.ChangeOrder, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+changeOrderColumns+` FROM change_orders co WHERE co.client_id = $1 ORDER BY co.created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.ChangeOrder
	for rows.Next() {
		var co models.ChangeOrder
		if err := scanChangeOrder(rows, &co); err != nil {
			return nil, err
		}
		orders = append(orders, &co)
	}
	return orders, rows.Err()
}

func (r *ChangeOrderRepository) UpdateStatus(ctx context.Context, id int, status billing.ChangeOrderStatus) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE change_orders SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	return err
}

func (r *ChangeOrderRepository) Approve(ctx context.Context, id int, approvedBy string, approvedAt time.Time) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE change_orders SET status = $1, approved_by = $2, approved_date = $3, updated_at = NOW()
		 WHERE id = $4`,
		string(billing.ChangeOrderStatusApproved), approvedBy, approvedAt, id)
	return err
}

// MarkInvoiced stamps the one-way reference to the invoice produced from
// this change order and moves it to its terminal state.
func (r *ChangeOrderRepository) MarkInvoiced(ctx context.Context, id, invoiceID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE change_orders SET status = $1, invoice_id = $2, updated_at = NOW() WHERE id = $3`,
		string(billing.ChangeOrderStatusInvoiced), invoiceID, id)
	return err
}
