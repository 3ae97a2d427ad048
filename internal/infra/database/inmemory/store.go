// Package inmemory provides mutex-guarded, map-backed implementations of the
// repository interfaces. It backs the test suites and local runs that have no
// Postgres available. Semantics mirror the Postgres repositories, including
// the sentinel errors from the database package.
package inmemory

import (
	"sync"

	"student_intervention_service/internal/domain/dailylog"
	"student_intervention_service/internal/domain/intervention"
	"student_intervention_service/internal/domain/student"
	"student_intervention_service/pkg/clock"
)

// Store holds all four tables behind a single mutex, which gives the same
// per-row serialization guarantee the real store provides. Row timestamps
// come from the injected clock, the way the real store stamps them with
// NOW(), so tests driving a fake clock get coherent timestamps throughout.
type Store struct {
	mu            sync.RWMutex
	clock         clock.Clock
	students      map[string]*student.Student
	dailyLogs     map[string]*dailylog.DailyLog
	interventions map[string]*intervention.Intervention
	mentorActions map[string]*intervention.MentorAction
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		clock:         clk,
		students:      make(map[string]*student.Student),
		dailyLogs:     make(map[string]*dailylog.DailyLog),
		interventions: make(map[string]*intervention.Intervention),
		mentorActions: make(map[string]*intervention.MentorAction),
	}
}
