package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username or email is already taken (unique index violation).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail looks up a user by lowercased email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
