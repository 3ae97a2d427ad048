package inmemory

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"student_intervention_service/internal/domain/intervention"
	idb "student_intervention_service/internal/infra/database"

	"github.com/google/uuid"
)

type InterventionRepository struct {
	store *Store
}

func NewInterventionRepository(store *Store) *InterventionRepository {
	return &InterventionRepository{store: store}
}

func (r *InterventionRepository) Create(_ context.Context, i *intervention.Intervention) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = intervention.StatusAssigned
	}
	// Honor a pre-set assignment time so tests can place interventions in the
	// past; the real store defaults the column to NOW().
	if i.AssignedAt.IsZero() {
		i.AssignedAt = r.store.clock.Now().UTC()
	}

	clone := *i
	r.store.interventions[i.ID] = &clone
	return nil
}

func (r *InterventionRepository) GetByID(_ context.Context, id string) (*intervention.Intervention, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i, ok := r.store.interventions[id]
	if !ok {
		return nil, idb.ErrInterventionNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *InterventionRepository) GetActiveByStudent(_ context.Context, studentID string) (*intervention.Intervention, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest *intervention.Intervention
	for _, i := range r.store.interventions {
		if i.StudentID != studentID || i.Status != intervention.StatusAssigned {
			continue
		}
		if latest == nil || i.AssignedAt.After(latest.AssignedAt) {
			latest = i
		}
	}
	if latest == nil {
		return nil, idb.ErrInterventionNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *InterventionRepository) Update(_ context.Context, i *intervention.Intervention) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.interventions[i.ID]
	if !ok {
		return idb.ErrInterventionNotFound
	}
	existing.AssignedBy = i.AssignedBy
	existing.Task = i.Task
	existing.Status = i.Status
	existing.MentorDeadline = i.MentorDeadline
	return nil
}

func (r *InterventionRepository) MarkComplete(_ context.Context, id string, completedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, ok := r.store.interventions[id]
	if !ok {
		return idb.ErrInterventionNotFound
	}
	i.Status = intervention.StatusCompleted
	i.CompletedAt = sql.NullTime{Time: completedAt, Valid: true}
	return nil
}

func (r *InterventionRepository) ListOverdue(_ context.Context, before time.Time) ([]*intervention.Intervention, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	overdue := make([]*intervention.Intervention, 0)
	for _, i := range r.store.interventions {
		if i.IsOverdue(before) {
			clone := *i
			overdue = append(overdue, &clone)
		}
	}
	sort.Slice(overdue, func(a, b int) bool {
		return overdue[a].MentorDeadline.Time.Before(overdue[b].MentorDeadline.Time)
	})
	return overdue, nil
}
