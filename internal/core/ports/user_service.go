package ports

import (
	"context"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

// CreateUserInput carries all fields required to create an account.
type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
}

// UpdateUserInput carries optional fields for a partial account update.
// Nil pointers mean "leave unchanged".
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *string
	Password *string
}

// UserService implements administrative user management.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	// Delete removes an account. callerUsername identifies the authenticated
	// admin so self-deletion can be refused.
	Delete(ctx context.Context, id string, callerUsername string) error
}
