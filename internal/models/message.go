package models

import "time"

// Message is a single project-thread message between staff and the client.
// SenderType distinguishes the two sides; exactly one of SenderUserID /
// SenderClientID is set.
type Message struct {
	ID             int       `json:"id"`
	ProjectID      int       `json:"project_id"`
	SenderType     string    `json:"sender_type"` // staff or client
	SenderUserID   *int      `json:"sender_user_id"`
	SenderClientID *int      `json:"sender_client_id"`
	SenderName     string    `json:"sender_name"`
	Body           string    `json:"body"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateMessageRequest represents the request body for posting a message
type CreateMessageRequest struct {
	ProjectID int    `json:"project_id"`
	Body      string `json:"body"`
}
