package repository

import (
	"context"
	"fmt"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// GetByUserID returns the user's role assignments, newest first.
func (r *RoleRepository) GetByUserID(ctx context.Context, userID string) ([]*model.RoleAssignment, error) {
	query := `
		SELECT id, user_id, role, group_ids, created_at
		FROM role_assignments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get role assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*model.RoleAssignment
	for rows.Next() {
		var a model.RoleAssignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.GroupIDs, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role assignments: %w", err)
	}

	return assignments, nil
}

// PrincipalFor merges a user's role records into a single principal. Admin
// wins over teacher when both are present; group sets are unioned.
func (r *RoleRepository) PrincipalFor(ctx context.Context, userID string) (*model.Principal, error) {
	assignments, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	p := &model.Principal{UserID: userID, Role: model.RoleTeacher}
	seen := make(map[string]struct{})
	for _, a := range assignments {
		if a.Role == model.RoleAdmin {
			p.Role = model.RoleAdmin
		}
		for _, g := range a.GroupIDs {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			p.GroupIDs = append(p.GroupIDs, g)
		}
	}

	return p, nil
}
