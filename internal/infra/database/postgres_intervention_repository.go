package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"student_intervention_service/internal/domain/intervention"

	"github.com/lib/pq"
)

// Custom errors
var ErrInterventionNotFound = fmt.Errorf("intervention not found")

// Postgres error code for a table that does not exist yet.
const pgUndefinedTable = "42P01"

type PostgresInterventionRepository struct {
	db *sql.DB
}

func NewPostgresInterventionRepository(db *sql.DB) *PostgresInterventionRepository {
	return &PostgresInterventionRepository{db: db}
}

func (r *PostgresInterventionRepository) Create(ctx context.Context, i *intervention.Intervention) error {
	query := `INSERT INTO interventions (student_id, assigned_by, task, status, mentor_deadline)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, assigned_at`
	err := r.db.QueryRowContext(ctx, query,
		i.StudentID, i.AssignedBy, i.Task, i.Status, i.MentorDeadline,
	).Scan(&i.ID, &i.AssignedAt)
	if err != nil {
		return fmt.Errorf("error creating intervention: %w", err)
	}
	return nil
}

func (r *PostgresInterventionRepository) GetByID(ctx context.Context, id string) (*intervention.Intervention, error) {
	query := `SELECT id, student_id, assigned_by, task, status, assigned_at, completed_at, mentor_deadline
               FROM interventions WHERE id = $1`
	i := &intervention.Intervention{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&i.ID, &i.StudentID, &i.AssignedBy, &i.Task, &i.Status,
		&i.AssignedAt, &i.CompletedAt, &i.MentorDeadline,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInterventionNotFound
		}
		return nil, fmt.Errorf("error getting intervention by ID: %w", err)
	}
	return i, nil
}

func (r *PostgresInterventionRepository) GetActiveByStudent(ctx context.Context, studentID string) (*intervention.Intervention, error) {
	query := `SELECT id, student_id, assigned_by, task, status, assigned_at, completed_at, mentor_deadline
               FROM interventions
               WHERE student_id = $1 AND status = $2
               ORDER BY assigned_at DESC
               LIMIT 1`
	i := &intervention.Intervention{}
	err := r.db.QueryRowContext(ctx, query, studentID, intervention.StatusAssigned).Scan(
		&i.ID, &i.StudentID, &i.AssignedBy, &i.Task, &i.Status,
		&i.AssignedAt, &i.CompletedAt, &i.MentorDeadline,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInterventionNotFound
		}
		return nil, fmt.Errorf("error getting active intervention for student: %w", err)
	}
	return i, nil
}

func (r *PostgresInterventionRepository) Update(ctx context.Context, i *intervention.Intervention) error {
	query := `UPDATE interventions
               SET assigned_by = $1, task = $2, status = $3, mentor_deadline = $4
               WHERE id = $5
               RETURNING assigned_at`
	err := r.db.QueryRowContext(ctx, query,
		i.AssignedBy, i.Task, i.Status, i.MentorDeadline, i.ID,
	).Scan(&i.AssignedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInterventionNotFound
		}
		return fmt.Errorf("error updating intervention: %w", err)
	}
	return nil
}

func (r *PostgresInterventionRepository) MarkComplete(ctx context.Context, id string, completedAt time.Time) error {
	query := `UPDATE interventions
               SET status = $1, completed_at = $2
               WHERE id = $3
               RETURNING id`
	var returned string
	err := r.db.QueryRowContext(ctx, query, intervention.StatusCompleted, completedAt, id).Scan(&returned)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInterventionNotFound
		}
		return fmt.Errorf("error marking intervention complete: %w", err)
	}
	return nil
}

func (r *PostgresInterventionRepository) ListOverdue(ctx context.Context, before time.Time) ([]*intervention.Intervention, error) {
	query := `SELECT id, student_id, assigned_by, task, status, assigned_at, completed_at, mentor_deadline
               FROM interventions
               WHERE status = $1 AND mentor_deadline IS NOT NULL AND mentor_deadline < $2
               ORDER BY mentor_deadline ASC`
	rows, err := r.db.QueryContext(ctx, query, intervention.StatusAssigned, before)
	if err != nil {
		// Tables not provisioned yet: nothing to sweep, not an error.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUndefinedTable {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying overdue interventions: %w", err)
	}
	defer rows.Close()

	interventions := make([]*intervention.Intervention, 0)
	for rows.Next() {
		i := &intervention.Intervention{}
		if err := rows.Scan(
			&i.ID, &i.StudentID, &i.AssignedBy, &i.Task, &i.Status,
			&i.AssignedAt, &i.CompletedAt, &i.MentorDeadline,
		); err != nil {
			return nil, fmt.Errorf("error scanning overdue intervention row: %w", err)
		}
		interventions = append(interventions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue intervention rows: %w", err)
	}
	return interventions, nil
}
