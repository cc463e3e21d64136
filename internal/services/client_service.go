package services

import (
	"context"
	"errors"

	"estimate-backend/internal/auth"
	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
)

type ClientService struct {
	Repo       *repositories.ClientRepository
	JWTManager *auth.JWTManager
}

func NewClientService(repo *repositories.ClientRepository, jwtManager *auth.JWTManager) *ClientService {
	return &ClientService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}

	existing, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.New("client with this email already exists")
	}

	client := &models.Client{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		IsActive:    true,
	}
	if req.Password != "" {
		hashedPassword, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hashedPassword
	}

	if err := s.Repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, id int) (*models.Client, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ClientService) ListClients(ctx context.Context) ([]*models.Client, error) {
	return s.Repo.List(ctx)
}

func (s *ClientService) UpdateClient(ctx context.Context, id int, req *models.UpdateClientRequest) (*models.Client, error) {
	client, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("client not found")
	}

	client.Name = req.Name
	client.CompanyName = req.CompanyName
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.IsActive = req.IsActive

	if err := s.Repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// Login authenticates a portal client and returns a JWT token
func (s *ClientService) Login(ctx context.Context, req *models.ClientLoginRequest) (*models.ClientAuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	client, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if client.PasswordHash == "" || !auth.VerifyPassword(client.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}
	if !client.IsActive {
		return nil, errors.New("account is disabled")
	}

	token, err := s.JWTManager.GenerateClientToken(client, false)
	if err != nil {
		return nil, err
	}

	return &models.ClientAuthResponse{
		Token:  token,
		Client: client,
	}, nil
}
