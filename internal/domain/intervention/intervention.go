package intervention

import (
	"database/sql"
	"time"
)

// Status represents the lifecycle state of an intervention.
type Status string

const (
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Intervention is a remediation task assigned to a student who failed a
// check-in (or was assigned one directly by a mentor).
// Corresponds to the 'interventions' table.
//
// Invariant: at most one intervention with StatusAssigned exists per student
// at any time. The service layer reuses the live intervention instead of
// creating a second one.
type Intervention struct {
	ID             string
	StudentID      string
	AssignedBy     string // mentor identity or "system"
	Task           string
	Status         Status
	AssignedAt     time.Time
	CompletedAt    sql.NullTime
	MentorDeadline sql.NullTime // Time by which a human mentor is expected to act
}

// IsOverdue reports whether the mentor deadline is set and has passed.
func (i *Intervention) IsOverdue(now time.Time) bool {
	return i.Status == StatusAssigned && i.MentorDeadline.Valid && i.MentorDeadline.Time.Before(now)
}
