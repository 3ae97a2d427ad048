package app

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"student_intervention_service/internal/domain/intervention"
	"student_intervention_service/internal/domain/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessOverdue_NothingToDo(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.escalation.ProcessOverdueInterventions(context.Background()))
	assert.Empty(t, f.actions.recorded())
}

func TestProcessOverdue_DeadlineNotYetPassed(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")

	f.failCheckin(t, s.ID)
	f.clock.Advance(11 * time.Hour)

	require.NoError(t, f.escalation.ProcessOverdueInterventions(context.Background()))
	assert.Empty(t, f.actions.recorded())
}

func TestProcessOverdue_EscalatesWithinUnlockWindow(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	res := f.failCheckin(t, s.ID)
	f.clock.Advance(13 * time.Hour)

	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	actions := f.actions.recorded()
	require.Len(t, actions, 1)
	assert.Equal(t, intervention.ActionEscalate, actions[0].Action)
	assert.Equal(t, "head-mentor", actions[0].Mentor)
	require.True(t, actions[0].InterventionID.Valid)
	assert.Equal(t, res.InterventionID, actions[0].InterventionID.String)
	assert.Equal(t, "Mentor deadline exceeded", actions[0].Payload["reason"])

	// Escalation alone changes nothing for the student.
	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusLocked, got.Status)

	iv, err := f.interventions.GetByID(ctx, res.InterventionID)
	require.NoError(t, err)
	assert.Equal(t, "Pending mentor assignment", iv.Task)
	assert.True(t, iv.MentorDeadline.Valid)
}

func TestProcessOverdue_RepeatSweepDoesNotEscalateTwice(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	f.failCheckin(t, s.ID)
	f.clock.Advance(13 * time.Hour)

	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))
	f.clock.Advance(time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	assert.Len(t, f.actions.recorded(), 1)
}

func TestProcessOverdue_AutoUnlocksAfterWindow(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	res := f.failCheckin(t, s.ID)
	f.clock.Advance(25 * time.Hour)

	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusRemedial, got.Status, "student is no longer stuck Locked")

	iv, err := f.interventions.GetByID(ctx, res.InterventionID)
	require.NoError(t, err)
	assert.Equal(t, "Auto-assigned: Watch Lecture 3", iv.Task)
	assert.Equal(t, "system-auto", iv.AssignedBy)
	assert.Equal(t, intervention.StatusAssigned, iv.Status)
	assert.False(t, iv.MentorDeadline.Valid, "assignment clears the deadline")

	actions := f.actions.recorded()
	require.Len(t, actions, 1)
	assert.Equal(t, intervention.ActionAutoUnlock, actions[0].Action)
	assert.Equal(t, "system-auto", actions[0].Mentor)
	require.True(t, actions[0].InterventionID.Valid)
	assert.Equal(t, res.InterventionID, actions[0].InterventionID.String)
}

func TestProcessOverdue_SweepQuiescesAfterAutoUnlock(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	f.failCheckin(t, s.ID)
	f.clock.Advance(25 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))
	require.Len(t, f.actions.recorded(), 1)

	// The unlocked intervention carries no deadline, so later sweeps see it
	// as quiet even though it is still assigned.
	f.clock.Advance(72 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))
	assert.Len(t, f.actions.recorded(), 1)

	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusRemedial, got.Status)
}

func TestProcessOverdue_EscalationThenAutoUnlock(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	res := f.failCheckin(t, s.ID)

	f.clock.Advance(13 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	f.clock.Advance(12 * time.Hour) // 25h since assignment
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	actions := f.actions.recorded()
	require.Len(t, actions, 2)
	assert.Equal(t, intervention.ActionEscalate, actions[0].Action)
	assert.Equal(t, intervention.ActionAutoUnlock, actions[1].Action)

	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusRemedial, got.Status)

	iv, err := f.interventions.GetByID(ctx, res.InterventionID)
	require.NoError(t, err)
	assert.Equal(t, "Auto-assigned: Watch Lecture 3", iv.Task)
}

func TestProcessOverdue_MentorAssignmentStopsTheClock(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	f.failCheckin(t, s.ID)
	require.NoError(t, f.service.AssignIntervention(ctx, AssignInterventionPayload{
		StudentID: s.ID,
		Task:      "Redo recursion exercises 1-5",
		Mentor:    "mentor-zhanna",
	}))

	f.clock.Advance(100 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	assert.Empty(t, f.actions.recorded())

	iv, err := f.interventions.GetActiveByStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Redo recursion exercises 1-5", iv.Task)
}

// A reused intervention row goes overdue again when a later failing check-in
// reinstates its deadline. The fail-safe must fire for every such episode,
// not just the first one in the row's lifetime.
func TestProcessOverdue_AutoUnlocksEveryOverdueEpisode(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	res := f.failCheckin(t, s.ID)
	f.clock.Advance(25 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, student.StatusRemedial, got.Status)
	require.Len(t, f.actions.recorded(), 1)

	// The student fails again; the same row gets its deadline back.
	again := f.failCheckin(t, s.ID)
	require.Equal(t, res.InterventionID, again.InterventionID)

	f.clock.Advance(13 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))
	f.clock.Advance(100 * time.Hour)
	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	got, err = f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, student.StatusLocked, got.Status)
	assert.Equal(t, student.StatusRemedial, got.Status)

	iv, err := f.interventions.GetByID(ctx, res.InterventionID)
	require.NoError(t, err)
	assert.Equal(t, "Auto-assigned: Watch Lecture 3", iv.Task)
	assert.False(t, iv.MentorDeadline.Valid)

	actions := f.actions.recorded()
	require.Len(t, actions, 2)
	assert.Equal(t, intervention.ActionAutoUnlock, actions[0].Action)
	assert.Equal(t, intervention.ActionAutoUnlock, actions[1].Action)
}

// An escalation from an earlier overdue episode must not silence the alert
// for a new one. A wide auto-unlock window keeps the second episode on the
// escalate path.
func TestProcessOverdue_NewOverdueEpisodeEscalatesAgain(t *testing.T) {
	f := newFixture(t)
	escalation := NewEscalationServiceImpl(
		f.interventions, f.actions, f.service,
		f.clock, 72*time.Hour, newTestLogger(),
	)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	f.failCheckin(t, s.ID)
	f.clock.Advance(13 * time.Hour)
	require.NoError(t, escalation.ProcessOverdueInterventions(ctx))
	require.Len(t, f.actions.recorded(), 1)

	// The mentor responds, then the student fails again within the window.
	require.NoError(t, f.service.AssignIntervention(ctx, AssignInterventionPayload{
		StudentID: s.ID,
		Task:      "Redo recursion exercises 1-5",
		Mentor:    "mentor-zhanna",
	}))
	f.failCheckin(t, s.ID)

	f.clock.Advance(13 * time.Hour)
	require.NoError(t, escalation.ProcessOverdueInterventions(ctx))

	actions := f.actions.recorded()
	require.Len(t, actions, 2)
	assert.Equal(t, intervention.ActionEscalate, actions[0].Action)
	assert.Equal(t, intervention.ActionEscalate, actions[1].Action)

	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusLocked, got.Status)
}

// An audit entry without the matching assignment means an earlier sweep died
// between its two writes. The next sweep finishes the unlock instead of
// recording a duplicate.
func TestProcessOverdue_ResumesInterruptedAutoUnlock(t *testing.T) {
	f := newFixture(t)
	s := f.createStudent(t, "Bek")
	ctx := context.Background()

	res := f.failCheckin(t, s.ID)
	f.clock.Advance(25 * time.Hour)

	require.NoError(t, f.actions.Create(ctx, &intervention.MentorAction{
		InterventionID: sql.NullString{String: res.InterventionID, Valid: true},
		Mentor:         "system-auto",
		Action:         intervention.ActionAutoUnlock,
		CreatedAt:      f.clock.Now().UTC(),
	}))

	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	got, err := f.students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusRemedial, got.Status)

	iv, err := f.interventions.GetByID(ctx, res.InterventionID)
	require.NoError(t, err)
	assert.Equal(t, "Auto-assigned: Watch Lecture 3", iv.Task)
	assert.False(t, iv.MentorDeadline.Valid)

	assert.Len(t, f.actions.recorded(), 1, "the existing entry is not duplicated")
}

func TestProcessOverdue_HandlesMultipleStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh := f.createStudent(t, "Aliya")
	stale := f.createStudent(t, "Bek")

	f.failCheckin(t, stale.ID)
	f.clock.Advance(13 * time.Hour)
	f.failCheckin(t, fresh.ID)

	require.NoError(t, f.escalation.ProcessOverdueInterventions(ctx))

	actions := f.actions.recorded()
	require.Len(t, actions, 1, "only the overdue intervention is acted on")
	assert.Equal(t, intervention.ActionEscalate, actions[0].Action)

	gotFresh, err := f.students.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusLocked, gotFresh.Status)
}
