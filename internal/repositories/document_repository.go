package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/models"
)

type DocumentRepository struct {
	DB *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO documents(project_id, file_name, storage_key, content_type, size_bytes, category, uploaded_by_user_id)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		d.ProjectID, d.Name, d.StorageKey, d.ContentType, d.SizeBytes, d.Category, d.UploadedByUserID,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *DocumentRepository) Get(ctx context.Context, id int) (*models.Document, error) {
	var d models.Document
	err := r.DB.QueryRow(ctx,
		`SELECT id, project_id, file_name, storage_key, content_type, size_bytes, category, uploaded_by_user_id, created_at
		 FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.ProjectID, &d.Name, &d.StorageKey, &d.ContentType, &d.SizeBytes,
		&d.Category, &d.UploadedByUserID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) ListByProject(ctx context.Context, projectID int) ([]*models.Document, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, project_id, file_name, storage_key, content_type, size_bytes, category, uploaded_by_user_id, created_at
		 FROM documents WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.StorageKey, &d.ContentType, &d.SizeBytes,
			&d.Category, &d.UploadedByUserID, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
