package services

import (
	"context"
	"errors"

	"estimate-backend/internal/auth"
	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	TOTP       *TOTPService
	JWTManager *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, totpService *TOTPService, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		TOTP:       totpService,
		JWTManager: jwtManager,
	}
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}
	if req.Role != "admin" && req.Role != "estimator" {
		return nil, errors.New("role must be 'admin' or 'estimator'")
	}

	existing, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if req.Role != "" && req.Role != "admin" && req.Role != "estimator" {
		return nil, errors.New("role must be 'admin' or 'estimator'")
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	if req.Role != "" {
		user.Role = req.Role
	}
	user.IsActive = req.IsActive

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hashedPassword, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.UpdatePassword(ctx, id, hashedPassword); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// Login authenticates a staff user. When 2FA is enabled the TOTP code
// must accompany the password; we never issue a full token on password
// alone for those accounts.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account is disabled")
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, errors.New("2FA code required")
		}
		if err := s.TOTP.Verify(ctx, user.ID, req.TOTPCode); err != nil {
			return nil, err
		}
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
