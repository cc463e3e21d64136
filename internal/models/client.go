package models

import "time"

// Client is a customer of the estimating company. Clients sign in to the
// portal with email + password to track their projects, quotes and invoices.
type Client struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	CompanyName  string    `json:"company_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// UpdateClientRequest represents the request body for updating a client
type UpdateClientRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	IsActive    bool   `json:"is_active"`
}

// ClientLoginRequest represents the portal login request body
type ClientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientAuthResponse represents the portal login response
type ClientAuthResponse struct {
	Token  string  `json:"token"`
	Client *Client `json:"client"`
}
