package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements, applied in order. Each is idempotent so Migrate can be
// rerun safely against an already-provisioned database.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT,
		status TEXT NOT NULL DEFAULT 'On Track',
		last_intervention_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

		CONSTRAINT valid_student_status CHECK (status IN ('On Track', 'Needs Intervention', 'Remedial', 'Locked'))
	)`,

	`CREATE TABLE IF NOT EXISTS daily_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		quiz_score INTEGER NOT NULL,
		focus_minutes INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

		CONSTRAINT valid_quiz_score CHECK (quiz_score BETWEEN 0 AND 10),
		CONSTRAINT valid_focus_minutes CHECK (focus_minutes >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS interventions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		assigned_by TEXT,
		task TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'assigned',
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ,
		mentor_deadline TIMESTAMPTZ,

		CONSTRAINT valid_intervention_status CHECK (status IN ('assigned', 'completed', 'cancelled'))
	)`,

	`CREATE TABLE IF NOT EXISTS mentor_actions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		intervention_id UUID REFERENCES interventions(id),
		mentor TEXT,
		action TEXT,
		payload JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_daily_logs_student_created
		ON daily_logs (student_id, created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_interventions_student_status
		ON interventions (student_id, status)`,

	// Partial index backing the escalation sweep's overdue query.
	`CREATE INDEX IF NOT EXISTS idx_interventions_overdue
		ON interventions (mentor_deadline)
		WHERE status = 'assigned' AND mentor_deadline IS NOT NULL`,

	`CREATE INDEX IF NOT EXISTS idx_mentor_actions_intervention
		ON mentor_actions (intervention_id, action)`,
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
