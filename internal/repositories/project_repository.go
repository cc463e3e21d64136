package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/models"
)

type ProjectRepository struct {
	DB *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO projects(client_id, name, description, address, status, start_date, end_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.ClientID, p.Name, p.Description, p.Address, p.Status, p.StartDate, p.EndDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (*models.ProjectWithClient, error) {
	var p models.ProjectWithClient
	err := r.DB.QueryRow(ctx,
		`SELECT p.id, p.client_id, p.name, p.description, p.address, p.status,
		        p.start_date, p.end_date, p.created_at, p.updated_at,
		        COALESCE(c.name, '') as client_name
		 FROM projects p
		 LEFT JOIN clients c ON p.client_id = c.id
		 WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Address, &p.Status,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt, &p.ClientName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.ProjectWithClient, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT p.id, p.client_id, p.name, p.description, p.address, p.status,
		        p.start_date, p.end_date, p.created_at, p.updated_at,
		        COALESCE(c.name, '') as client_name
		 FROM projects p
		 LEFT JOIN clients c ON p.client_id = c.id
		 ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.ProjectWithClient
	for rows.Next() {
		var p models.ProjectWithClient
		err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Address, &p.Status,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt, &p.ClientName)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) ListByClient(ctx context.Context, clientID int) ([]*models.Project, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, client_id, name, description, address, status, start_date, end_date, created_at, updated_at
		 FROM projects WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Address, &p.Status,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2, address = $3, status = $4,
		        start_date = $5, end_date = $6, updated_at = NOW()
		 WHERE id = $7`,
		p.Name, p.Description, p.Address, p.Status, p.StartDate, p.EndDate, p.ID)
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}
