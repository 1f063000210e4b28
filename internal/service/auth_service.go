package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
	"github.com/adilzhan-dev/tulpar-backend/internal/repository"
	"github.com/adilzhan-dev/tulpar-backend/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	accountRepo        repository.AccountRepository
	tokenRepo          repository.TokenRepository
	jwtManager         *utils.JWTManager
	hasher             *utils.PasswordHasher
	refreshTokenExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo repository.AccountRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	hasher *utils.PasswordHasher,
	refreshTokenExpiry time.Duration,
) AuthService {
	return &authService{
		accountRepo:        accountRepo,
		tokenRepo:          tokenRepo,
		jwtManager:         jwtManager,
		hasher:             hasher,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// Register creates a new account and issues the first token pair.
// New accounts always get the non-privileged role.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	// Validate the normalized form: padding and case must not fail an
	// otherwise well-formed email.
	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("invalid email format: %w", ErrValidation)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("password must be at least 6 characters long: %w", ErrValidation)
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("first and last name are required: %w", ErrValidation)
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		return nil, fmt.Errorf("invalid phone number: %w", ErrValidation)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if req.Phone != "" {
		account.Phone = &req.Phone
	}

	// Uniqueness is enforced by the store; a racing duplicate registration
	// surfaces here as a constraint violation, not earlier.
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return s.issueTokenPair(ctx, account)
}

// Login authenticates an account by email and password. Unknown email and
// wrong password produce the same error.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	account, err := s.accountRepo.GetByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	if !s.hasher.Verify(req.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, account)
}

// RefreshToken rotates a presented rotation token: the old token is revoked
// and linked to its successor, and a fresh pair is returned. A token is
// rotated at most once; a concurrent second attempt observes
// ErrTokenInactive.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	token, err := s.tokenRepo.GetByValue(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if !token.IsActive(time.Now()) {
		return nil, ErrTokenInactive
	}

	account, err := s.accountRepo.GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// An inactive account keeps its token unrotated.
	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	successor, err := s.tokenRepo.Rotate(ctx, refreshToken, s.refreshTokenExpiry)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInvalidToken
		case errors.Is(err, repository.ErrTokenInactive):
			return nil, ErrTokenInactive
		}
		return nil, fmt.Errorf("failed to rotate token: %w", err)
	}

	accessToken, err := s.jwtManager.IssueAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return s.buildAuthResult(account, accessToken, successor.Token), nil
}

// RevokeToken revokes a rotation token, used for logout. Revoking an
// unknown or already-inactive token is a reported failure.
func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.Revoke(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrInvalidToken
		case errors.Is(err, repository.ErrTokenInactive):
			return ErrTokenInactive
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// DeactivateAccount turns the account's active flag off. Existing rotation
// tokens are left in place: the refresh path rejects inactive accounts, so
// they can never be rotated again.
func (s *authService) DeactivateAccount(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	if !account.IsActive {
		return ErrAccountInactive
	}

	account.IsActive = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	return nil
}

// GetAccount returns the profile of an account
func (s *authService) GetAccount(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &dto.AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Phone:     account.Phone,
		Role:      string(account.Role),
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ValidateToken verifies an access token and returns its claims
func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.AccessClaims, error) {
	claims, err := s.jwtManager.VerifyAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
