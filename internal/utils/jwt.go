package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
)

// AccessClaims are the claims embedded in every issued access token.
type AccessClaims struct {
	Email      string      `json:"email"`
	GivenName  string      `json:"given_name"`
	FamilyName string      `json:"family_name"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies signed access tokens
type JWTManager struct {
	secret            []byte
	issuer            string
	audience          string
	accessTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret, issuer, audience string, accessTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:            []byte(secret),
		issuer:            issuer,
		audience:          audience,
		accessTokenExpiry: accessTokenExpiry,
	}
}

// IssueAccessToken mints a signed access token for the account. Each issuance
// carries a fresh jti so two tokens for the same account are never equal.
func (j *JWTManager) IssueAccessToken(account *domain.Account) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		Email:      account.Email,
		GivenName:  account.FirstName,
		FamilyName: account.LastName,
		Role:       account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken parses and verifies a signed access token. Signature,
// issuer, audience and expiry must all match; no clock-skew leeway is
// applied.
func (j *JWTManager) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.secret, nil
		},
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token claims missing subject")
	}

	return claims, nil
}

// GetAccessTokenExpiry returns the access token expiry duration in seconds
func (j *JWTManager) GetAccessTokenExpiry() int {
	return int(j.accessTokenExpiry.Seconds())
}
