package service

import (
	"errors"
	"time"

	"go-inventory-ledger/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid admin password")
	ErrAdminDisabled      = errors.New("admin access is not configured")
	ErrForbidden          = errors.New("admin privileges required")
)

// AuthService guards the settings screen behind the admin password.
type AuthService interface {
	Login(password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type authService struct {
	passwordHash []byte
	tokens       *jwt.Manager
	ttl          time.Duration
	// tokenVersion changes on every start, so a restart logs the admin out.
	tokenVersion string
}

func NewAuthService(passwordHash string, tokens *jwt.Manager, ttl time.Duration) AuthService {
	return &authService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		ttl:          ttl,
		tokenVersion: uuid.New().String(),
	}
}

// HashPassword hashes a plain admin password for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *authService) Login(password string) (*LoginResponse, error) {
	if len(s.passwordHash) == 0 {
		return nil, ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(adminRole, adminRole, s.tokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &LoginResponse{Token: token, ExpiresIn: int(s.ttl.Seconds())}, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenVersion != s.tokenVersion {
		return nil, jwt.ErrInvalidToken
	}
	if claims.Role != adminRole {
		return nil, ErrForbidden
	}
	return claims, nil
}
