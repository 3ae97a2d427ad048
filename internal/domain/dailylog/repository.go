package dailylog

import "context"

// Repository defines the append-only store for daily check-in logs.
type Repository interface {
	Create(ctx context.Context, log *DailyLog) error
	// ListRecentByStudent returns the newest logs first, up to limit entries.
	ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]*DailyLog, error)
}
