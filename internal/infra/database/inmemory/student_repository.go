package inmemory

import (
	"context"
	"fmt"

	"student_intervention_service/internal/domain/student"
	idb "student_intervention_service/internal/infra/database"

	"github.com/google/uuid"
)

type StudentRepository struct {
	store *Store
}

func NewStudentRepository(store *Store) *StudentRepository {
	return &StudentRepository{store: store}
}

func (r *StudentRepository) Create(_ context.Context, s *student.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = student.StatusOnTrack
	}
	now := r.store.clock.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	clone := *s
	r.store.students[s.ID] = &clone
	return nil
}

func (r *StudentRepository) GetByID(_ context.Context, id string) (*student.Student, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.students[id]
	if !ok {
		return nil, idb.ErrStudentNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *StudentRepository) UpdateStatus(_ context.Context, id string, status student.Status) error {
	// The real store enforces this with a CHECK constraint.
	if !status.IsValid() {
		return fmt.Errorf("invalid student status %q", status)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.students[id]
	if !ok {
		return idb.ErrStudentNotFound
	}
	s.Status = status
	s.UpdatedAt = r.store.clock.Now().UTC()
	return nil
}

func (r *StudentRepository) UpdateLastIntervention(_ context.Context, id string, interventionID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.students[id]
	if !ok {
		return idb.ErrStudentNotFound
	}
	s.LastInterventionID.String = interventionID
	s.LastInterventionID.Valid = true
	s.UpdatedAt = r.store.clock.Now().UTC()
	return nil
}
