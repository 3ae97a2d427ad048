package notifier

import (
	"context"

	"student_intervention_service/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes mentor alerts to the log. Used in development when no
// outbound channel is configured.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyMentor(_ context.Context, alert notify.MentorAlert) error {
	n.logger.WithFields(logrus.Fields{
		"student_id":    alert.StudentID,
		"student_name":  alert.StudentName,
		"quiz_score":    alert.QuizScore,
		"focus_minutes": alert.FocusMinutes,
		"daily_log_id":  alert.DailyLogID,
	}).Info("mentor alert (log-only notifier)")
	return nil
}
