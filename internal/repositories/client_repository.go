package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/models"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO clients(name, company_name, email, phone, address, password_hash, is_active)
		 VALUES($1, $2, $3, $4, $5, $6, true)
		 RETURNING id, created_at, updated_at`,
		client.Name, client.CompanyName, client.Email, client.Phone, client.Address, client.PasswordHash,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *ClientRepository) Get(ctx context.Context, id int) (*models.Client, error) {
	var c models.Client
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, company_name, email, phone, address, password_hash, is_active, created_at, updated_at
		 FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.Phone, &c.Address,
		&c.PasswordHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, company_name, email, phone, address, password_hash, is_active, created_at, updated_at
		 FROM clients WHERE email = $1`, email,
	).Scan(&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.Phone, &c.Address,
		&c.PasswordHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, company_name, email, phone, address, password_hash, is_active, created_at, updated_at
		 FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var c models.Client
		err := rows.Scan(&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.Phone, &c.Address,
			&c.PasswordHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET name = $1, company_name = $2, email = $3, phone = $4, address = $5, is_active = $6, updated_at = NOW()
		 WHERE id = $7`,
		client.Name, client.CompanyName, client.Email, client.Phone, client.Address, client.IsActive, client.ID)
	return err
}

func (r *ClientRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
