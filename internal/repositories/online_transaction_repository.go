package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/models"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, t *models.OnlineTransaction) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO online_transactions(invoice_id, client_id, gateway_order_id, amount, currency, status)
		 VALUES($1, $2, $3, $4::numeric, $5, $6)
		 RETURNING id, created_at, updated_at`,
		t.InvoiceID, t.ClientID, t.GatewayOrderID, t.Amount.String(), t.Currency, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *OnlineTransactionRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	var t models.OnlineTransaction
	var amount string
	err := r.DB.QueryRow(ctx,
		`SELECT id, invoice_id, client_id, gateway_order_id, COALESCE(gateway_payment_id, ''), amount::text, currency, status, created_at, updated_at
		 FROM online_transactions WHERE gateway_order_id = $1`, orderID,
	).Scan(&t.ID, &t.InvoiceID, &t.ClientID, &t.GatewayOrderID, &t.GatewayPaymentID, &amount, &t.Currency,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *OnlineTransactionRepository) MarkCaptured(ctx context.Context, id int, paymentID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions SET status = 'captured', gateway_payment_id = $2, updated_at = NOW()
		 WHERE id = $1`, id, paymentID)
	return err
}

func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions SET status = 'failed', updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *OnlineTransactionRepository) ListByInvoice(ctx context.Context, invoiceID int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, client_id, gateway_order_id, COALESCE(gateway_payment_id, ''), amount::text, currency, status, created_at, updated_at
		 FROM online_transactions WHERE invoice_id = $1 ORDER BY created_at DESC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.OnlineTransaction
	for rows.Next() {
		var t models.OnlineTransaction
		var amount string
		err := rows.Scan(&t.ID, &t.InvoiceID, &t.ClientID, &t.GatewayOrderID, &t.GatewayPaymentID, &amount,
			&t.Currency, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if t.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
