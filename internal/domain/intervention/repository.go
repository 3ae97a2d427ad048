package intervention

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving interventions.
type Repository interface {
	Create(ctx context.Context, i *Intervention) error
	GetByID(ctx context.Context, id string) (*Intervention, error)
	// GetActiveByStudent returns the student's intervention with StatusAssigned,
	// newest first if the invariant was ever violated.
	GetActiveByStudent(ctx context.Context, studentID string) (*Intervention, error)
	// Update replaces the mutable columns (assigner, task, status, deadline) in place.
	Update(ctx context.Context, i *Intervention) error
	MarkComplete(ctx context.Context, id string, completedAt time.Time) error
	// ListOverdue returns assigned interventions whose mentor deadline is set
	// and earlier than the given instant. A store whose tables are not yet
	// provisioned reports an empty result rather than an error.
	ListOverdue(ctx context.Context, before time.Time) ([]*Intervention, error)
}

// ActionRepository defines the write-once store for the mentor audit trail.
type ActionRepository interface {
	Create(ctx context.Context, a *MentorAction) error
	// HasActionSince reports whether an entry with the given action label was
	// recorded for the intervention strictly after the given instant. Used
	// only as the sweep's idempotency check; passing the current mentor
	// deadline scopes the check to the current overdue episode, so entries
	// left over from an earlier episode on the same row do not count.
	HasActionSince(ctx context.Context, interventionID, action string, since time.Time) (bool, error)
}
