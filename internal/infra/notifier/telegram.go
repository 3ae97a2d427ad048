package notifier

import (
	"context"
	"fmt"

	"student_intervention_service/internal/domain/notify"

	"gopkg.in/telebot.v3"
)

// TelegramNotifier delivers mentor alerts to a configured mentor chat using
// the gopkg.in/telebot.v3 library.
type TelegramNotifier struct {
	bot          *telebot.Bot
	mentorChatID int64
}

func NewTelegramNotifier(b *telebot.Bot, mentorChatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: b, mentorChatID: mentorChatID}
}

func (n *TelegramNotifier) NotifyMentor(_ context.Context, alert notify.MentorAlert) error {
	who := alert.StudentName
	if who == "" {
		who = alert.StudentID
	}
	text := fmt.Sprintf(
		"Student needs intervention: %s\nQuiz score: %d\nFocus minutes: %d\nStudent ID: %s",
		who, alert.QuizScore, alert.FocusMinutes, alert.StudentID,
	)

	_, err := n.bot.Send(telebot.ChatID(n.mentorChatID), text, &telebot.SendOptions{})
	if err != nil {
		return fmt.Errorf("failed to send mentor alert via telegram: %w", err)
	}
	return nil
}
