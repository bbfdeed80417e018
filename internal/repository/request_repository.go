package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, domain, reason, requester_email, group_id, priority, status, created_at, resolved_at, resolved_by, resolve_note`

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func scanRequest(row pgx.Row) (*model.AccessRequest, error) {
	var req model.AccessRequest
	err := row.Scan(
		&req.ID,
		&req.Domain,
		&req.Reason,
		&req.RequesterEmail,
		&req.GroupID,
		&req.Priority,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
		&req.ResolvedBy,
		&req.ResolveNote,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) scanRequests(rows pgx.Rows) ([]*model.AccessRequest, error) {
	defer rows.Close()

	var requests []*model.AccessRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan access request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return requests, nil
}

// Create persists a request with its initial status.
func (r *RequestRepository) Create(ctx context.Context, req *model.AccessRequest) error {
	query := `
		INSERT INTO access_requests (domain, reason, requester_email, group_id, priority, status, resolved_at, resolved_by, resolve_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		req.Domain,
		req.Reason,
		req.RequesterEmail,
		req.GroupID,
		req.Priority,
		req.Status,
		req.ResolvedAt,
		req.ResolvedBy,
		req.ResolveNote,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		return fmt.Errorf("create access request: %w", err)
	}

	return nil
}

// GetByID returns the request or nil if absent.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*model.AccessRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM access_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access request: %w", err)
	}

	return req, nil
}

// ListPending returns all pending requests, oldest first.
func (r *RequestRepository) ListPending(ctx context.Context) ([]*model.AccessRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM access_requests
		WHERE status = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, model.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}

	return r.scanRequests(rows)
}

// ListPendingByGroups returns pending requests scoped to the given groups.
func (r *RequestRepository) ListPendingByGroups(ctx context.Context, groupIDs []string) ([]*model.AccessRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM access_requests
		WHERE status = $1 AND group_id = ANY($2)
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, model.RequestStatusPending, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("list pending requests by groups: %w", err)
	}

	return r.scanRequests(rows)
}

// Resolve transitions a pending request to a terminal status. The WHERE
// clause keeps the transition atomic: of two concurrent resolvers exactly
// one sees an affected row, the other gets transitioned = false.
func (r *RequestRepository) Resolve(ctx context.Context, id int64, status, resolvedBy, note, groupID string) (bool, error) {
	query := `
		UPDATE access_requests
		SET status = $2, resolved_by = $3, resolved_at = $4, resolve_note = $5, group_id = $6
		WHERE id = $1 AND status = $7
	`

	tag, err := r.pool.Exec(ctx, query, id, status, resolvedBy, time.Now(), note, groupID, model.RequestStatusPending)
	if err != nil {
		return false, fmt.Errorf("resolve request: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a request and reports whether a row was removed.
func (r *RequestRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_requests WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete request: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
