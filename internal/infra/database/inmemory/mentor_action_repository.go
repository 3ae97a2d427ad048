package inmemory

import (
	"context"
	"time"

	"student_intervention_service/internal/domain/intervention"

	"github.com/google/uuid"
)

type MentorActionRepository struct {
	store *Store
}

func NewMentorActionRepository(store *Store) *MentorActionRepository {
	return &MentorActionRepository{store: store}
}

func (r *MentorActionRepository) Create(_ context.Context, a *intervention.MentorAction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.store.clock.Now().UTC()
	}

	clone := *a
	r.store.mentorActions[a.ID] = &clone
	return nil
}

func (r *MentorActionRepository) HasActionSince(_ context.Context, interventionID, action string, since time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.mentorActions {
		if a.Action == action && a.InterventionID.Valid && a.InterventionID.String == interventionID && a.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}
