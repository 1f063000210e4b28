package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
	"github.com/adilzhan-dev/tulpar-backend/pkg/database"
)

// tokenValueBytes is the entropy of an opaque rotation-token value.
const tokenValueBytes = 64

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *database.Postgres
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *database.Postgres) TokenRepository {
	return &tokenRepository{db: db}
}

// newTokenValue generates a fresh opaque token value.
func newTokenValue() (string, error) {
	buf := make([]byte, tokenValueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token value: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Issue mints a new rotation token for the account. In the same transaction
// it purges every other token of that account that is already expired or
// revoked, so stale rows do not accumulate unboundedly.
func (r *tokenRepository) Issue(ctx context.Context, accountID string, ttl time.Duration) (*domain.RotationToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &domain.RotationToken{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Token:     value,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	purge := `
		DELETE FROM rotation_tokens
		WHERE account_id = $1 AND (revoked_at IS NOT NULL OR expires_at <= $2)
	`
	if _, err := tx.ExecContext(ctx, purge, accountID, now); err != nil {
		return nil, fmt.Errorf("failed to purge stale tokens: %w", err)
	}

	insert := `
		INSERT INTO rotation_tokens (id, account_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insert,
		token.ID, token.AccountID, token.Token, token.ExpiresAt, token.CreatedAt,
	); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("token value collision: %w", ErrDuplicateToken)
		}
		return nil, fmt.Errorf("failed to insert token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit token issue: %w", err)
	}

	return token, nil
}

const tokenColumns = `id, account_id, token, expires_at, created_at, revoked_at, replaced_by`

func scanToken(row *sql.Row) (*domain.RotationToken, error) {
	token := &domain.RotationToken{}
	var revokedAt sql.NullTime
	var replacedBy sql.NullString

	err := row.Scan(
		&token.ID,
		&token.AccountID,
		&token.Token,
		&token.ExpiresAt,
		&token.CreatedAt,
		&revokedAt,
		&replacedBy,
	)
	if err != nil {
		return nil, err
	}

	if revokedAt.Valid {
		token.RevokedAt = &revokedAt.Time
	}
	if replacedBy.Valid {
		token.ReplacedBy = &replacedBy.String
	}

	return token, nil
}

// GetByValue retrieves a rotation token by its opaque value
func (r *tokenRepository) GetByValue(ctx context.Context, value string) (*domain.RotationToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM rotation_tokens WHERE token = $1`

	token, err := scanToken(r.db.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token by value: %w", err)
	}

	return token, nil
}

// Revoke sets the revocation timestamp on a currently active token.
// Revoking a token that is already expired or revoked fails with
// ErrTokenInactive, an unknown value with ErrNotFound.
func (r *tokenRepository) Revoke(ctx context.Context, value string) error {
	now := time.Now()
	query := `
		UPDATE rotation_tokens
		SET revoked_at = $2
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > $2
	`

	result, err := r.db.DB.ExecContext(ctx, query, value, now)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.classifyMiss(ctx, value)
	}

	return nil
}

// Rotate revokes the presented token, records its successor's value on it,
// and inserts the successor, all in one transaction. The conditional UPDATE
// is the arbiter under concurrency: the caller whose UPDATE matches zero
// rows loses and observes ErrTokenInactive.
func (r *tokenRepository) Rotate(ctx context.Context, oldValue string, ttl time.Duration) (*domain.RotationToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	successor := &domain.RotationToken{
		ID:        uuid.New().String(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		Token:     value,
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	revoke := `
		UPDATE rotation_tokens
		SET revoked_at = $2, replaced_by = $3
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > $2
		RETURNING account_id
	`
	var accountID string
	err = tx.QueryRowContext(ctx, revoke, oldValue, now, successor.Token).Scan(&accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMiss(ctx, oldValue)
		}
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}
	successor.AccountID = accountID

	insert := `
		INSERT INTO rotation_tokens (id, account_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insert,
		successor.ID, successor.AccountID, successor.Token, successor.ExpiresAt, successor.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert successor token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rotation: %w", err)
	}

	return successor, nil
}

// classifyMiss distinguishes an unknown token value from one that exists but
// is no longer active.
func (r *tokenRepository) classifyMiss(ctx context.Context, value string) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM rotation_tokens WHERE token = $1)`

	if err := r.db.DB.QueryRowContext(ctx, query, value).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check token existence: %w", err)
	}

	if exists {
		return fmt.Errorf("token is not active: %w", ErrTokenInactive)
	}
	return fmt.Errorf("token not found: %w", ErrNotFound)
}
