package repository

import (
	"context"
	"time"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
)

// AccountRepository defines methods for account operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
}

// TokenRepository defines methods for rotation-token operations.
//
// Issue and Rotate mint fresh opaque token values; Rotate additionally
// revokes the presented token and records its successor inside one
// transaction, so of two concurrent rotations of the same value exactly one
// succeeds and the other observes ErrTokenInactive.
type TokenRepository interface {
	Issue(ctx context.Context, accountID string, ttl time.Duration) (*domain.RotationToken, error)
	GetByValue(ctx context.Context, value string) (*domain.RotationToken, error)
	Revoke(ctx context.Context, value string) error
	Rotate(ctx context.Context, oldValue string, ttl time.Duration) (*domain.RotationToken, error)
}
