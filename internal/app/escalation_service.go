package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"student_intervention_service/internal/domain/intervention"
	"student_intervention_service/pkg/clock"

	"github.com/sirupsen/logrus"
)

const (
	autoUnlockTask     = "Auto-assigned: Watch Lecture 3"
	autoUnlockAssigner = "system-auto"
	escalationMentor   = "head-mentor"
)

// EscalationService is the deadline fail-safe: it scans for interventions
// whose mentor deadline has passed and either records an escalation for a
// human outside the normal mentor to review, or - once the full auto-unlock
// window has elapsed - assigns a default task so the student is never stuck
// Locked indefinitely.
type EscalationService interface {
	ProcessOverdueInterventions(ctx context.Context) error
}

// EscalationServiceImpl implements EscalationService. Every decision is
// derived from current store state, so an interrupted sweep is safe to rerun
// from scratch on the next period.
type EscalationServiceImpl struct {
	interventionRepo intervention.Repository
	actionRepo       intervention.ActionRepository
	lifecycle        InterventionService
	clock            clock.Clock
	autoUnlockWindow time.Duration
	logger           *logrus.Logger
}

func NewEscalationServiceImpl(
	ir intervention.Repository,
	ar intervention.ActionRepository,
	lifecycle InterventionService,
	clk clock.Clock,
	autoUnlockWindow time.Duration,
	logger *logrus.Logger,
) *EscalationServiceImpl {
	return &EscalationServiceImpl{
		interventionRepo: ir,
		actionRepo:       ar,
		lifecycle:        lifecycle,
		clock:            clk,
		autoUnlockWindow: autoUnlockWindow,
		logger:           logger,
	}
}

// ProcessOverdueInterventions runs one sweep. A failure on one intervention
// is logged and does not stop the batch; a failure to query the store is
// returned and retried on the next period.
func (s *EscalationServiceImpl) ProcessOverdueInterventions(ctx context.Context) error {
	now := s.clock.Now().UTC()

	overdue, err := s.interventionRepo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue interventions: %w", err)
	}
	if len(overdue) == 0 {
		s.logger.Debug("escalation sweep found no overdue interventions")
		return nil
	}
	s.logger.WithField("count", len(overdue)).Info("escalation sweep found overdue interventions")

	unlockBefore := now.Add(-s.autoUnlockWindow)
	for _, iv := range overdue {
		var actErr error
		if iv.AssignedAt.Before(unlockBefore) {
			actErr = s.autoUnlock(ctx, iv)
		} else {
			actErr = s.escalate(ctx, iv)
		}
		if actErr != nil {
			s.logger.WithError(actErr).WithFields(logrus.Fields{
				"intervention_id": iv.ID,
				"student_id":      iv.StudentID,
			}).Error("escalation sweep failed to act on intervention")
		}
	}
	return nil
}

// autoUnlock assigns the default task through the regular lifecycle operation,
// so it inherits the same consistency discipline as a mentor-driven
// assignment. The audit entry is recorded first: if the process dies between
// the two writes, the deadline is still set, the row stays overdue, and the
// next sweep finds the entry and retries only the assignment.
//
// Idempotency is scoped to the current overdue episode. A reused intervention
// row can go overdue again after a later failing check-in reinstates its
// deadline, so only entries recorded after the current deadline count.
func (s *EscalationServiceImpl) autoUnlock(ctx context.Context, iv *intervention.Intervention) error {
	done, err := s.actionRepo.HasActionSince(ctx, iv.ID, intervention.ActionAutoUnlock, iv.MentorDeadline.Time)
	if err != nil {
		return fmt.Errorf("check auto-unlock idempotency: %w", err)
	}
	if done {
		// Entry recorded but the row is still overdue, so the assignment
		// from an earlier sweep never landed. Finish it now.
		s.logger.WithField("intervention_id", iv.ID).Info("completing interrupted auto-unlock")
	} else {
		s.logger.WithFields(logrus.Fields{
			"intervention_id": iv.ID,
			"student_id":      iv.StudentID,
		}).Info("auto-unlocking intervention, no mentor response within window")

		action := &intervention.MentorAction{
			InterventionID: sql.NullString{String: iv.ID, Valid: true},
			Mentor:         autoUnlockAssigner,
			Action:         intervention.ActionAutoUnlock,
			Payload: map[string]any{
				"reason": "No mentor response within auto-unlock window",
			},
		}
		if err := s.actionRepo.Create(ctx, action); err != nil {
			return fmt.Errorf("record auto-unlock action: %w", err)
		}
	}

	if err := s.lifecycle.AssignIntervention(ctx, AssignInterventionPayload{
		StudentID: iv.StudentID,
		Task:      autoUnlockTask,
		Mentor:    autoUnlockAssigner,
	}); err != nil {
		return fmt.Errorf("assign auto-unlock task: %w", err)
	}
	return nil
}

// escalate records that the intervention is overdue for a human to review.
// The student's status is untouched: a mentor is expected to act next. Each
// overdue episode is escalated once; entries from an earlier episode on the
// same row do not suppress a new one.
func (s *EscalationServiceImpl) escalate(ctx context.Context, iv *intervention.Intervention) error {
	done, err := s.actionRepo.HasActionSince(ctx, iv.ID, intervention.ActionEscalate, iv.MentorDeadline.Time)
	if err != nil {
		return fmt.Errorf("check escalation idempotency: %w", err)
	}
	if done {
		s.logger.WithField("intervention_id", iv.ID).Debug("intervention already escalated, skipping")
		return nil
	}

	s.logger.WithFields(logrus.Fields{
		"intervention_id": iv.ID,
		"student_id":      iv.StudentID,
	}).Info("escalating overdue intervention to head mentor")

	payload := map[string]any{
		"reason": "Mentor deadline exceeded",
	}
	if iv.MentorDeadline.Valid {
		payload["deadline"] = iv.MentorDeadline.Time.Format(time.RFC3339)
	}

	action := &intervention.MentorAction{
		InterventionID: sql.NullString{String: iv.ID, Valid: true},
		Mentor:         escalationMentor,
		Action:         intervention.ActionEscalate,
		Payload:        payload,
	}
	if err := s.actionRepo.Create(ctx, action); err != nil {
		return fmt.Errorf("record escalation action: %w", err)
	}
	return nil
}
