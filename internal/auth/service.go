package auth

import (
	"context"
	"time"

	"github.com/ollav12/DAT251/internal/user"
)

// LoginResult is a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *user.User
}

// Service provides login.
type Service struct {
	users *user.Service
	jwt   *JWTService
}

// NewService creates a new auth service.
func NewService(users *user.Service, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login checks a username/password pair and issues an access token.
// Returns user.ErrInvalidCredentials for an unknown username or wrong
// password.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        u,
	}, nil
}
