package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassroomRepository struct {
	pool *pgxpool.Pool
}

func NewClassroomRepository(pool *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{pool: pool}
}

// Create persists a classroom. The unique name constraint surfaces as an
// error from the driver.
func (r *ClassroomRepository) Create(ctx context.Context, c *model.Classroom) error {
	query := `
		INSERT INTO classrooms (name, display_name, default_group_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, c.Name, c.DisplayName, c.DefaultGroupID).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}

	return nil
}

// GetByID returns the classroom or nil if absent.
func (r *ClassroomRepository) GetByID(ctx context.Context, id int64) (*model.Classroom, error) {
	query := `
		SELECT id, name, display_name, default_group_id, active_group_id, created_at
		FROM classrooms
		WHERE id = $1
	`

	var c model.Classroom
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.DisplayName,
		&c.DefaultGroupID,
		&c.ActiveGroupID,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get classroom: %w", err)
	}

	return &c, nil
}

// GetByName returns the classroom with the given unique name or nil.
func (r *ClassroomRepository) GetByName(ctx context.Context, name string) (*model.Classroom, error) {
	query := `
		SELECT id, name, display_name, default_group_id, active_group_id, created_at
		FROM classrooms
		WHERE name = $1
	`

	var c model.Classroom
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&c.ID,
		&c.Name,
		&c.DisplayName,
		&c.DefaultGroupID,
		&c.ActiveGroupID,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get classroom by name: %w", err)
	}

	return &c, nil
}

// List returns all classrooms.
func (r *ClassroomRepository) List(ctx context.Context) ([]*model.Classroom, error) {
	query := `
		SELECT id, name, display_name, default_group_id, active_group_id, created_at
		FROM classrooms
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	defer rows.Close()

	var classrooms []*model.Classroom
	for rows.Next() {
		var c model.Classroom
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.DisplayName,
			&c.DefaultGroupID,
			&c.ActiveGroupID,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan classroom: %w", err)
		}
		classrooms = append(classrooms, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classrooms: %w", err)
	}

	return classrooms, nil
}

// SetActiveGroup sets or clears (nil) the manual override. Reports whether
// the classroom existed.
func (r *ClassroomRepository) SetActiveGroup(ctx context.Context, id int64, groupID *string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE classrooms SET active_group_id = $2 WHERE id = $1`, id, groupID)
	if err != nil {
		return false, fmt.Errorf("set active group: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
