package database

import (
	"context"
	"database/sql"
	"fmt"

	"student_intervention_service/internal/domain/student"
)

// Custom errors
var ErrStudentNotFound = fmt.Errorf("student not found")

type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

func (r *PostgresStudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `INSERT INTO students (name, email, status)
               VALUES ($1, $2, $3)
               RETURNING id, created_at, updated_at`

	if s.Status == "" {
		s.Status = student.StatusOnTrack
	}

	err := r.db.QueryRowContext(ctx, query, s.Name, s.Email, s.Status).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT id, name, email, status, last_intervention_id, created_at, updated_at
               FROM students WHERE id = $1`
	s := &student.Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Status, &s.LastInterventionID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresStudentRepository) UpdateStatus(ctx context.Context, id string, status student.Status) error {
	query := `UPDATE students
               SET status = $1, updated_at = NOW()
               WHERE id = $2
               RETURNING updated_at`
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStudentNotFound
		}
		return fmt.Errorf("error updating student status: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) UpdateLastIntervention(ctx context.Context, id string, interventionID string) error {
	query := `UPDATE students
               SET last_intervention_id = $1, updated_at = NOW()
               WHERE id = $2
               RETURNING updated_at`
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, interventionID, id).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStudentNotFound
		}
		return fmt.Errorf("error updating student last intervention: %w", err)
	}
	return nil
}
