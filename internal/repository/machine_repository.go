package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MachineRepository struct {
	pool *pgxpool.Pool
}

func NewMachineRepository(pool *pgxpool.Pool) *MachineRepository {
	return &MachineRepository{pool: pool}
}

// Create registers a machine. Re-registering an existing hostname moves the
// machine to the given classroom instead of failing.
func (r *MachineRepository) Create(ctx context.Context, m *model.Machine) error {
	query := `
		INSERT INTO machines (hostname, classroom_id)
		VALUES ($1, $2)
		ON CONFLICT (hostname) DO UPDATE SET classroom_id = EXCLUDED.classroom_id
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, m.Hostname, m.ClassroomID).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}

	return nil
}

// GetByHostname returns the machine or nil if absent.
func (r *MachineRepository) GetByHostname(ctx context.Context, hostname string) (*model.Machine, error) {
	query := `
		SELECT id, hostname, classroom_id, created_at
		FROM machines
		WHERE hostname = $1
	`

	var m model.Machine
	err := r.pool.QueryRow(ctx, query, hostname).Scan(
		&m.ID,
		&m.Hostname,
		&m.ClassroomID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine: %w", err)
	}

	return &m, nil
}

// ListByClassroom returns the machines registered to a classroom.
func (r *MachineRepository) ListByClassroom(ctx context.Context, classroomID int64) ([]*model.Machine, error) {
	query := `
		SELECT id, hostname, classroom_id, created_at
		FROM machines
		WHERE classroom_id = $1
		ORDER BY hostname
	`

	rows, err := r.pool.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	var machines []*model.Machine
	for rows.Next() {
		var m model.Machine
		if err := rows.Scan(&m.ID, &m.Hostname, &m.ClassroomID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		machines = append(machines, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate machines: %w", err)
	}

	return machines, nil
}
