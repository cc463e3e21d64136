package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"estimate-backend/internal/models"
)

type MessageRepository struct {
	DB *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO messages(project_id, sender_type, sender_user_id, sender_client_id, sender_name, body)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		m.ProjectID, m.SenderType, m.SenderUserID, m.SenderClientID, m.SenderName, m.Body,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) ListByProject(ctx context.Context, projectID int) ([]*models.Message, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, project_id, sender_type, sender_user_id, sender_client_id, sender_name, body, read_at, created_at
		 FROM messages WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderType, &m.SenderUserID, &m.SenderClientID,
			&m.SenderName, &m.Body, &m.ReadAt, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// MarkRead marks every message in a project thread sent by the other side
// as read.
func (r *MessageRepository) MarkRead(ctx context.Context, projectID int, readerType string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE messages SET read_at = NOW()
		 WHERE project_id = $1 AND sender_type <> $2 AND read_at IS NULL`,
		projectID, readerType)
	return err
}
