package ports

import (
	"context"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

// LoginResult carries the token pair issued on a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Identity     domain.Identity
}

// AuthService verifies credentials and issues token pairs.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
