package auth

import (
	"errors"
	"time"

	"estimate-backend/internal/models"
	"estimate-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// ClientClaims represents JWT claims for client portal authentication
type ClientClaims struct {
	ClientID int    `json:"client_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsClient bool   `json:"is_client"`
	jwt.RegisteredClaims
}

// GenerateClientToken creates a new JWT token for a portal client
func (j *JWTManager) GenerateClientToken(client *models.Client, rememberMe bool) (string, error) {
	now := timeutil.Now()
	var expirationTime time.Time

	if rememberMe {
		// 30 days for "Remember Me"
		expirationTime = now.Add(30 * 24 * time.Hour)
	} else {
		// 24 hours for regular session
		expirationTime = now.Add(24 * time.Hour)
	}

	claims := &ClientClaims{
		ClientID: client.ID,
		Email:    client.Email,
		Name:     client.Name,
		IsClient: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateClientToken verifies a client JWT token and returns the claims
func (j *JWTManager) ValidateClientToken(tokenString string) (*ClientClaims, error) {
	claims := &ClientClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	// Staff tokens must not pass the portal gate
	if !claims.IsClient {
		return nil, errors.New("not a client token")
	}

	return claims, nil
}
