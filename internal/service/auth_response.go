package service

import (
	"context"
	"fmt"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
)

// AuthResult contains the auth response together with the refresh token,
// which travels to the client separately (httpOnly cookie).
type AuthResult struct {
	AuthResponse *dto.AuthResponse
	RefreshToken string
	ExpiresIn    int // Refresh token expiry in seconds
}

// issueTokenPair mints one access token and one rotation token for the
// account. The rotation-token insert also purges the account's stale rows.
func (s *authService) issueTokenPair(ctx context.Context, account *domain.Account) (*AuthResult, error) {
	accessToken, err := s.jwtManager.IssueAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	rotationToken, err := s.tokenRepo.Issue(ctx, account.ID, s.refreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue rotation token: %w", err)
	}

	return s.buildAuthResult(account, accessToken, rotationToken.Token), nil
}

func (s *authService) buildAuthResult(account *domain.Account, accessToken, refreshToken string) *AuthResult {
	return &AuthResult{
		AuthResponse: &dto.AuthResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
			Account: dto.AccountInfo{
				ID:        account.ID,
				Email:     account.Email,
				FirstName: account.FirstName,
				LastName:  account.LastName,
				Role:      string(account.Role),
			},
		},
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.refreshTokenExpiry.Seconds()),
	}
}
