package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Create persists an inclusion token.
func (r *TokenRepository) Create(ctx context.Context, t *model.InclusionToken) error {
	query := `
		INSERT INTO inclusion_tokens (token, owner_user_id, group_id, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		t.Token,
		t.OwnerUserID,
		t.GroupID,
		t.ExpiresAt,
		t.IsActive,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("create inclusion token: %w", err)
	}

	return nil
}

// GetByToken returns the token record or nil if absent.
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*model.InclusionToken, error) {
	query := `
		SELECT id, token, owner_user_id, group_id, expires_at, is_active, created_at
		FROM inclusion_tokens
		WHERE token = $1
	`

	var t model.InclusionToken
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&t.ID,
		&t.Token,
		&t.OwnerUserID,
		&t.GroupID,
		&t.ExpiresAt,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inclusion token: %w", err)
	}

	return &t, nil
}

// Deactivate turns a token off.
func (r *TokenRepository) Deactivate(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE inclusion_tokens SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate inclusion token: %w", err)
	}

	return nil
}

// DeactivateExpired turns off all tokens past their expiry. Returns the
// number of tokens swept.
func (r *TokenRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	query := `
		UPDATE inclusion_tokens
		SET is_active = false
		WHERE is_active = true AND expires_at IS NOT NULL AND expires_at < now()
	`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
