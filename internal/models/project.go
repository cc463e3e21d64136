package models

import "time"

// Project lifecycle statuses
const (
	ProjectStatusPlanned    = "planned"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
)

// Project is a job for a client. Every billing document belongs to exactly
// one project and one client; the project lifecycle is managed here, outside
// the billing engine.
type Project struct {
	ID          int        `json:"id"`
	ClientID    int        `json:"client_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Status      string     `json:"status"` // planned, in_progress, on_hold, completed
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectWithClient includes the client's display name for list views
type ProjectWithClient struct {
	Project
	ClientName string `json:"client_name"`
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	ClientID    int        `json:"client_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProjectRequest represents the request body for updating a project
type UpdateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}
