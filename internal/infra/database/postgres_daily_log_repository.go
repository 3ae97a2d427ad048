package database

import (
	"context"
	"database/sql"
	"fmt"

	"student_intervention_service/internal/domain/dailylog"
)

type PostgresDailyLogRepository struct {
	db *sql.DB
}

func NewPostgresDailyLogRepository(db *sql.DB) *PostgresDailyLogRepository {
	return &PostgresDailyLogRepository{db: db}
}

func (r *PostgresDailyLogRepository) Create(ctx context.Context, l *dailylog.DailyLog) error {
	query := `INSERT INTO daily_logs (student_id, quiz_score, focus_minutes)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, l.StudentID, l.QuizScore, l.FocusMinutes).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating daily log: %w", err)
	}
	return nil
}

func (r *PostgresDailyLogRepository) ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]*dailylog.DailyLog, error) {
	query := `SELECT id, student_id, quiz_score, focus_minutes, created_at
               FROM daily_logs
               WHERE student_id = $1
               ORDER BY created_at DESC
               LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent daily logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*dailylog.DailyLog, 0)
	for rows.Next() {
		l := &dailylog.DailyLog{}
		if err := rows.Scan(&l.ID, &l.StudentID, &l.QuizScore, &l.FocusMinutes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning daily log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily log rows: %w", err)
	}
	return logs, nil
}
