package service

import (
	"context"

	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
	"github.com/adilzhan-dev/tulpar-backend/internal/geocoder"
	"github.com/adilzhan-dev/tulpar-backend/internal/utils"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	GetAccount(ctx context.Context, accountID string) (*dto.AccountResponse, error)
	DeactivateAccount(ctx context.Context, accountID string) error
	ValidateToken(ctx context.Context, token string) (*utils.AccessClaims, error)
}

// Geocoder abstracts the external geocoding collaborator.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocoder.Result, error)
	GeocodeMultiple(ctx context.Context, query string, limit int) ([]geocoder.Result, error)
}
