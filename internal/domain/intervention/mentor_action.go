package intervention

import (
	"database/sql"
	"time"
)

// Mentor action labels recorded by the escalation sweep.
const (
	ActionEscalate   = "escalate"
	ActionAutoUnlock = "auto_unlock"
)

// MentorAction is a write-once audit entry for the escalation/approval trail.
// Corresponds to the 'mentor_actions' table. Entries are never read back into
// decision logic, with one exception: the escalation sweep checks for an
// existing entry so that two sweeps over the same overdue intervention do not
// double-record.
type MentorAction struct {
	ID             string
	InterventionID sql.NullString
	Mentor         string
	Action         string
	Payload        map[string]any // Free-form, stored as JSONB
	CreatedAt      time.Time
}
