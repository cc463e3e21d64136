package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"estimate-backend/internal/models"
	"estimate-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "EstimateBackend"

var (
	ErrNoTOTPSecret    = errors.New("2FA has not been set up for this account")
	ErrInvalidTOTPCode = errors.New("invalid verification code")
)

type TOTPService struct {
	UserRepo *repositories.UserRepository
}

func NewTOTPService(userRepo *repositories.UserRepository) *TOTPService {
	return &TOTPService{UserRepo: userRepo}
}

// GenerateSetup creates a new TOTP secret and QR code for a user. The
// secret is stored immediately but 2FA only takes effect once the user
// verifies a code against it.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}
	qrBase64 := base64.StdEncoding.EncodeToString(buf.Bytes())

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + qrBase64,
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// Verify checks a TOTP code against the user's stored secret.
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) error {
	secret, err := s.UserRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrNoTOTPSecret
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}
	return nil
}

// Disable removes the user's TOTP secret, turning 2FA off.
func (s *TOTPService) Disable(ctx context.Context, userID int) error {
	return s.UserRepo.SetTOTPSecret(ctx, userID, "")
}
