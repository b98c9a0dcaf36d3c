package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/ports"
	"github.com/smartwater/monitoring-api/internal/token"
)

// AuthService verifies credentials against the user store and issues token
// pairs. Unknown usernames and wrong passwords are indistinguishable to the
// caller: both surface as ErrInvalidCredentials.
type AuthService struct {
	repo   ports.UserRepository
	tokens *token.Manager
}

func NewAuthService(repo ports.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identity := domain.IdentityOf(user)
	access, refresh, err := s.tokens.IssuePair(identity)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		Identity:     identity,
	}, nil
}
