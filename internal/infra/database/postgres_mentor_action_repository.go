package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"student_intervention_service/internal/domain/intervention"
)

type PostgresMentorActionRepository struct {
	db *sql.DB
}

func NewPostgresMentorActionRepository(db *sql.DB) *PostgresMentorActionRepository {
	return &PostgresMentorActionRepository{db: db}
}

func (r *PostgresMentorActionRepository) Create(ctx context.Context, a *intervention.MentorAction) error {
	var payload []byte
	if a.Payload != nil {
		var err error
		payload, err = json.Marshal(a.Payload)
		if err != nil {
			return fmt.Errorf("error marshalling mentor action payload: %w", err)
		}
	}

	query := `INSERT INTO mentor_actions (intervention_id, mentor, action, payload)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, a.InterventionID, a.Mentor, a.Action, payload).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating mentor action: %w", err)
	}
	return nil
}

func (r *PostgresMentorActionRepository) HasActionSince(ctx context.Context, interventionID, action string, since time.Time) (bool, error) {
	query := `SELECT EXISTS (
                   SELECT 1 FROM mentor_actions
                   WHERE intervention_id = $1 AND action = $2 AND created_at > $3
               )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, interventionID, action, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking mentor action existence: %w", err)
	}
	return exists, nil
}
