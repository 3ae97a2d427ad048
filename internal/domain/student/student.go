package student

import (
	"database/sql"
	"time"
)

// Status is the single source of truth for what a student may currently do.
type Status string

const (
	// StatusOnTrack - the student passed their latest check-in.
	StatusOnTrack Status = "On Track"
	// StatusNeedsIntervention - reserved for direct external assignment paths;
	// the check-in flow never produces it.
	StatusNeedsIntervention Status = "Needs Intervention"
	// StatusRemedial - a mentor (or the fail-safe) assigned a task and the
	// student is working it.
	StatusRemedial Status = "Remedial"
	// StatusLocked - the student failed a check-in and is awaiting mentor triage.
	StatusLocked Status = "Locked"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOnTrack, StatusNeedsIntervention, StatusRemedial, StatusLocked:
		return true
	default:
		return false
	}
}

// HasActiveIntervention reports whether a student in this status is expected
// to have a live intervention attached.
func (s Status) HasActiveIntervention() bool {
	return s == StatusLocked || s == StatusRemedial
}

// Student represents a student tracked by the intervention system.
// Corresponds to the 'students' table.
type Student struct {
	ID                 string
	Name               string
	Email              sql.NullString // Optional contact address
	Status             Status
	LastInterventionID sql.NullString // Weak reference to the most recent intervention
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
