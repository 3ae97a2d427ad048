package notify

import (
	"context"
	"time"
)

// MentorAlert carries the context a mentor needs to triage a failed check-in.
type MentorAlert struct {
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"name,omitempty"`
	StudentEmail string    `json:"email,omitempty"`
	QuizScore    int       `json:"quiz_score"`
	FocusMinutes int       `json:"focus_minutes"`
	DailyLogID   string    `json:"daily_log_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notifier delivers a mentor alert over an outbound channel.
// Delivery is best-effort: callers log failures and move on, because the
// status transition that triggered the alert has already been committed.
type Notifier interface {
	NotifyMentor(ctx context.Context, alert MentorAlert) error
}
