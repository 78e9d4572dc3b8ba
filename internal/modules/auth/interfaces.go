package auth

import (
	"context"
	"time"

	"hotelfront/internal/domain"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, error)
	ResetFailedLogins(ctx context.Context, id int64) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, name, role string) (string, error)
	TTL() time.Duration
}
