package ports

import (
	"context"

	"github.com/staffdesk/identity-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.Session, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	// Logout is idempotent and always succeeds for well-formed input.
	Logout(ctx context.Context, username string) error
}
