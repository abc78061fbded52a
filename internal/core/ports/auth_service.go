package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// AuthResult is returned by Register and Login: the public user record
// plus a freshly signed bearer token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService defines the registration and login use cases.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// CurrentUser resolves an authenticated identity back to its user
	// record. Returns domain.ErrUserNotFound when the account was deleted
	// after the token was issued.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
