package dailylog

import "time"

// DailyLog is an immutable record of one check-in attempt.
// Corresponds to the 'daily_logs' table. Rows are appended, never updated or
// deleted: the history of what a student actually did must survive any later
// failure in the check-in flow.
type DailyLog struct {
	ID           string
	StudentID    string
	QuizScore    int // 0-10
	FocusMinutes int // >= 0
	CreatedAt    time.Time
}
