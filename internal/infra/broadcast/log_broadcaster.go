package broadcast

import (
	"student_intervention_service/internal/domain/broadcast"
	"student_intervention_service/internal/domain/student"

	"github.com/sirupsen/logrus"
)

// LogBroadcaster records status snapshots in the log. It stands in for a
// realtime push channel, which is outside this service's correctness
// guarantees either way.
type LogBroadcaster struct {
	logger *logrus.Logger
}

func NewLogBroadcaster(logger *logrus.Logger) *LogBroadcaster {
	return &LogBroadcaster{logger: logger}
}

func (b *LogBroadcaster) EmitStatusChanged(studentID string, status student.Status, active *broadcast.InterventionSnapshot) {
	fields := logrus.Fields{
		"student_id": studentID,
		"status":     status,
	}
	if active != nil {
		fields["intervention_id"] = active.ID
		fields["task"] = active.Task
	}
	b.logger.WithFields(fields).Debug("student status changed")
}
