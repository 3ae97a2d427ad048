package broadcast

import (
	"student_intervention_service/internal/domain/intervention"
	"student_intervention_service/internal/domain/student"
)

// InterventionSnapshot is the slice of an intervention that interests
// realtime listeners.
type InterventionSnapshot struct {
	ID     string
	Task   string
	Status intervention.Status
}

// Broadcaster pushes a status snapshot to interested listeners after a state
// change. Fire-and-forget: implementations must not block the caller and are
// not part of correctness.
type Broadcaster interface {
	EmitStatusChanged(studentID string, status student.Status, active *InterventionSnapshot)
}
