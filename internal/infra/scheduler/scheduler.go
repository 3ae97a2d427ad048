package scheduler

import (
	"context"
	"fmt"
	"time"

	"student_intervention_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Upper bound on one sweep; the batch is small and every action is a handful
// of keyed store calls.
const sweepTimeout = 5 * time.Minute

// EscalationScheduler drives the escalation sweep on a fixed period. One
// sweep also runs synchronously at Start so a restart never waits a full
// period to pick up overdue interventions.
type EscalationScheduler struct {
	cronEngine *cron.Cron
	escalation app.EscalationService
	logger     *logrus.Logger
	interval   time.Duration
}

func NewEscalationScheduler(
	escalation app.EscalationService,
	logger *logrus.Logger,
	interval time.Duration,
) *EscalationScheduler {
	return &EscalationScheduler{
		cronEngine: cron.New(),
		escalation: escalation,
		logger:     logger,
		interval:   interval,
	}
}

func (s *EscalationScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("starting escalation scheduler")

	// Catch up immediately on anything that went overdue while we were down.
	s.runSweep()

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cronEngine.AddFunc(spec, s.runSweep); err != nil {
		s.logger.Fatalf("could not register escalation sweep job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("escalation scheduler started")
}

func (s *EscalationScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := s.escalation.ProcessOverdueInterventions(ctx); err != nil {
		// The next period retries from current store state.
		s.logger.WithError(err).Error("escalation sweep failed")
	}
}

// Stop halts the schedule and waits for a running sweep to finish; the sweep
// always completes its current batch before the scheduler sleeps or exits.
func (s *EscalationScheduler) Stop() {
	s.logger.Info("stopping escalation scheduler")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("escalation scheduler stopped")
}
