package domain

import "time"

// RotationToken represents one issued long-lived refresh credential.
// The raw token value is opaque random data; ReplacedBy records the value of
// the successor token minted when this one was rotated, forming a
// singly-linked lineage per account.
type RotationToken struct {
	ID         string     `json:"id" db:"id"`
	AccountID  string     `json:"account_id" db:"account_id"`
	Token      string     `json:"-" db:"token"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at" db:"revoked_at"`
	ReplacedBy *string    `json:"replaced_by" db:"replaced_by"`
}

// IsExpired reports whether the token's expiry has passed at the given time.
func (t *RotationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevoked reports whether the token has been explicitly revoked.
func (t *RotationToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token is neither expired nor revoked.
func (t *RotationToken) IsActive(now time.Time) bool {
	return !t.IsExpired(now) && !t.IsRevoked()
}

// TokenPair is what a successful authentication hands back to the caller.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
