package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"student_intervention_service/internal/domain/broadcast"
	"student_intervention_service/internal/domain/dailylog"
	"student_intervention_service/internal/domain/intervention"
	"student_intervention_service/internal/domain/notify"
	"student_intervention_service/internal/domain/student"
	idb "student_intervention_service/internal/infra/database"
	"student_intervention_service/pkg/clock"

	"github.com/sirupsen/logrus"
)

const (
	systemAssigner = "system"
	pendingTask    = "Pending mentor assignment"

	// Upper bound on a single notifier call. The transition is already
	// committed by the time the notifier runs, so a slow channel may only
	// delay the response, never the state machine.
	notifyTimeout = 10 * time.Second
)

// CheckinStatus is the student-facing result of a daily check-in.
type CheckinStatus string

const (
	CheckinStatusOnTrack             CheckinStatus = "On Track"
	CheckinStatusPendingMentorReview CheckinStatus = "Pending Mentor Review"
)

// CheckinResult is returned by HandleDailyCheckin.
type CheckinResult struct {
	Status         CheckinStatus
	InterventionID string // Set only when the check-in failed
}

// InterventionSummary is the slice of an intervention reported in a student's state.
type InterventionSummary struct {
	ID     string
	Task   string
	Status intervention.Status
}

// StudentState is returned by GetStudentState.
type StudentState struct {
	StudentID          string
	Status             student.Status
	ActiveIntervention *InterventionSummary
}

// InterventionService owns the student status state machine and the
// intervention lifecycle.
type InterventionService interface {
	HandleDailyCheckin(ctx context.Context, payload DailyCheckinPayload) (*CheckinResult, error)
	AssignIntervention(ctx context.Context, payload AssignInterventionPayload) error
	MarkInterventionComplete(ctx context.Context, payload CompleteInterventionPayload) error
	GetStudentState(ctx context.Context, studentID string) (*StudentState, error)
}

// InterventionServiceImpl implements InterventionService on top of the
// repository capability set.
type InterventionServiceImpl struct {
	studentRepo      student.Repository
	logRepo          dailylog.Repository
	interventionRepo intervention.Repository
	notifier         notify.Notifier
	broadcaster      broadcast.Broadcaster
	evaluator        Evaluator
	clock            clock.Clock
	mentorDeadline   time.Duration
	logger           *logrus.Logger
}

func NewInterventionServiceImpl(
	sr student.Repository,
	lr dailylog.Repository,
	ir intervention.Repository,
	n notify.Notifier,
	b broadcast.Broadcaster,
	evaluator Evaluator,
	clk clock.Clock,
	mentorDeadline time.Duration,
	logger *logrus.Logger,
) *InterventionServiceImpl {
	return &InterventionServiceImpl{
		studentRepo:      sr,
		logRepo:          lr,
		interventionRepo: ir,
		notifier:         n,
		broadcaster:      b,
		evaluator:        evaluator,
		clock:            clk,
		mentorDeadline:   mentorDeadline,
		logger:           logger,
	}
}

// HandleDailyCheckin evaluates a check-in and drives the student's status.
// The daily log is appended before the outcome is evaluated so the check-in
// history is durable even if a later step fails.
func (s *InterventionServiceImpl) HandleDailyCheckin(ctx context.Context, payload DailyCheckinPayload) (*CheckinResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	st, err := s.studentRepo.GetByID(ctx, payload.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", payload.StudentID, err)
	}

	entry := &dailylog.DailyLog{
		StudentID:    st.ID,
		QuizScore:    payload.QuizScore,
		FocusMinutes: payload.FocusMinutes,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("append daily log for student %s: %w", st.ID, err)
	}

	if s.evaluator.Evaluate(payload.QuizScore, payload.FocusMinutes) == OutcomePass {
		if st.Status != student.StatusOnTrack {
			if err := s.studentRepo.UpdateStatus(ctx, st.ID, student.StatusOnTrack); err != nil {
				return nil, fmt.Errorf("restore student %s to on-track: %w", st.ID, err)
			}
			s.logger.WithFields(logrus.Fields{
				"student_id": st.ID,
				"from":       st.Status,
			}).Info("check-in passed, student restored to On Track")
			s.broadcaster.EmitStatusChanged(st.ID, student.StatusOnTrack, nil)
		}
		return &CheckinResult{Status: CheckinStatusOnTrack}, nil
	}

	// Failed check-in: lock the student behind an intervention with a mentor
	// response deadline.
	now := s.clock.Now().UTC()

	iv, err := s.interventionRepo.GetActiveByStudent(ctx, st.ID)
	switch {
	case err == nil:
		// A live intervention already exists (e.g. a second consecutive
		// failing check-in). Reuse it: at most one assigned intervention per
		// student. Mentor-assigned interventions carry no deadline, so
		// reinstate one here or the fail-safe would never see this student.
		if !iv.MentorDeadline.Valid {
			iv.MentorDeadline = sql.NullTime{Time: now.Add(s.mentorDeadline), Valid: true}
			if err := s.interventionRepo.Update(ctx, iv); err != nil {
				return nil, fmt.Errorf("reinstate deadline on intervention %s: %w", iv.ID, err)
			}
		}
		s.logger.WithFields(logrus.Fields{
			"student_id":      st.ID,
			"intervention_id": iv.ID,
		}).Info("failing check-in with live intervention, reusing it")
	case errors.Is(err, idb.ErrInterventionNotFound):
		iv = &intervention.Intervention{
			StudentID:      st.ID,
			AssignedBy:     systemAssigner,
			Task:           pendingTask,
			Status:         intervention.StatusAssigned,
			MentorDeadline: sql.NullTime{Time: now.Add(s.mentorDeadline), Valid: true},
		}
		if err := s.interventionRepo.Create(ctx, iv); err != nil {
			return nil, fmt.Errorf("create intervention for student %s: %w", st.ID, err)
		}
	default:
		return nil, fmt.Errorf("look up live intervention for student %s: %w", st.ID, err)
	}

	if err := s.studentRepo.UpdateStatus(ctx, st.ID, student.StatusLocked); err != nil {
		return nil, fmt.Errorf("lock student %s: %w", st.ID, err)
	}
	if err := s.studentRepo.UpdateLastIntervention(ctx, st.ID, iv.ID); err != nil {
		return nil, fmt.Errorf("record last intervention for student %s: %w", st.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"student_id":      st.ID,
		"intervention_id": iv.ID,
		"mentor_deadline": iv.MentorDeadline.Time,
	}).Info("check-in failed, student locked pending mentor review")

	s.notifyMentorBestEffort(st, entry, now)
	s.broadcaster.EmitStatusChanged(st.ID, student.StatusLocked, snapshotOf(iv))

	return &CheckinResult{
		Status:         CheckinStatusPendingMentorReview,
		InterventionID: iv.ID,
	}, nil
}

// notifyMentorBestEffort delivers the mentor alert without tying its fate to
// the request: failures are logged and swallowed, and a detached context
// keeps the caller's cancellation from racing the send.
func (s *InterventionServiceImpl) notifyMentorBestEffort(st *student.Student, entry *dailylog.DailyLog, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	alert := notify.MentorAlert{
		StudentID:    st.ID,
		StudentName:  st.Name,
		QuizScore:    entry.QuizScore,
		FocusMinutes: entry.FocusMinutes,
		DailyLogID:   entry.ID,
		Timestamp:    at,
	}
	if st.Email.Valid {
		alert.StudentEmail = st.Email.String
	}

	if err := s.notifier.NotifyMentor(ctx, alert); err != nil {
		s.logger.WithError(err).WithField("student_id", st.ID).
			Warn("mentor notification failed, intervention already committed")
	}
}

// AssignIntervention records a mentor's (or the fail-safe's) task for a
// student and moves them to Remedial. When a live intervention exists it is
// updated in place: the task and assigner are replaced, and the mentor
// deadline is cleared since a mentor has now responded. Repeating the call
// with the same task is a no-op in effect.
func (s *InterventionServiceImpl) AssignIntervention(ctx context.Context, payload AssignInterventionPayload) error {
	if err := validatePayload(payload); err != nil {
		return err
	}

	st, err := s.studentRepo.GetByID(ctx, payload.StudentID)
	if err != nil {
		return fmt.Errorf("load student %s: %w", payload.StudentID, err)
	}

	iv, err := s.interventionRepo.GetActiveByStudent(ctx, st.ID)
	switch {
	case err == nil:
		iv.Task = payload.Task
		iv.AssignedBy = payload.Mentor
		iv.MentorDeadline = sql.NullTime{}
		if err := s.interventionRepo.Update(ctx, iv); err != nil {
			return fmt.Errorf("update intervention %s: %w", iv.ID, err)
		}
	case errors.Is(err, idb.ErrInterventionNotFound):
		iv = &intervention.Intervention{
			StudentID:  st.ID,
			AssignedBy: payload.Mentor,
			Task:       payload.Task,
			Status:     intervention.StatusAssigned,
		}
		if err := s.interventionRepo.Create(ctx, iv); err != nil {
			return fmt.Errorf("create intervention for student %s: %w", st.ID, err)
		}
	default:
		return fmt.Errorf("look up live intervention for student %s: %w", st.ID, err)
	}

	if err := s.studentRepo.UpdateStatus(ctx, st.ID, student.StatusRemedial); err != nil {
		return fmt.Errorf("move student %s to remedial: %w", st.ID, err)
	}
	if err := s.studentRepo.UpdateLastIntervention(ctx, st.ID, iv.ID); err != nil {
		return fmt.Errorf("record last intervention for student %s: %w", st.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"student_id":      st.ID,
		"intervention_id": iv.ID,
		"mentor":          payload.Mentor,
	}).Info("intervention assigned, student moved to Remedial")

	s.broadcaster.EmitStatusChanged(st.ID, student.StatusRemedial, snapshotOf(iv))
	return nil
}

// MarkInterventionComplete retires the intervention and restores the student
// to On Track unconditionally, whatever their prior status.
func (s *InterventionServiceImpl) MarkInterventionComplete(ctx context.Context, payload CompleteInterventionPayload) error {
	if err := validatePayload(payload); err != nil {
		return err
	}

	st, err := s.studentRepo.GetByID(ctx, payload.StudentID)
	if err != nil {
		return fmt.Errorf("load student %s: %w", payload.StudentID, err)
	}

	iv, err := s.interventionRepo.GetByID(ctx, payload.InterventionID)
	if err != nil {
		return fmt.Errorf("load intervention %s: %w", payload.InterventionID, err)
	}
	if iv.StudentID != st.ID {
		return fmt.Errorf("%w: intervention %s, student %s", ErrInterventionMismatch, iv.ID, st.ID)
	}

	if err := s.interventionRepo.MarkComplete(ctx, iv.ID, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("complete intervention %s: %w", iv.ID, err)
	}
	if err := s.studentRepo.UpdateStatus(ctx, st.ID, student.StatusOnTrack); err != nil {
		return fmt.Errorf("restore student %s to on-track: %w", st.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"student_id":      st.ID,
		"intervention_id": iv.ID,
	}).Info("intervention completed, student restored to On Track")

	s.broadcaster.EmitStatusChanged(st.ID, student.StatusOnTrack, nil)
	return nil
}

// GetStudentState reports the student's status and, when the status implies a
// live intervention, the intervention itself.
func (s *InterventionServiceImpl) GetStudentState(ctx context.Context, studentID string) (*StudentState, error) {
	st, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", studentID, err)
	}

	state := &StudentState{
		StudentID: st.ID,
		Status:    st.Status,
	}

	if st.Status.HasActiveIntervention() {
		iv, err := s.interventionRepo.GetActiveByStudent(ctx, st.ID)
		switch {
		case err == nil:
			state.ActiveIntervention = &InterventionSummary{
				ID:     iv.ID,
				Task:   iv.Task,
				Status: iv.Status,
			}
		case errors.Is(err, idb.ErrInterventionNotFound):
			// Status says there should be one, but the state machine treats
			// the store as authoritative and reports what is actually there.
		default:
			return nil, fmt.Errorf("look up live intervention for student %s: %w", st.ID, err)
		}
	}

	return state, nil
}

func snapshotOf(iv *intervention.Intervention) *broadcast.InterventionSnapshot {
	if iv == nil {
		return nil
	}
	return &broadcast.InterventionSnapshot{
		ID:     iv.ID,
		Task:   iv.Task,
		Status: iv.Status,
	}
}
