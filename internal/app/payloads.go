package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Payloads arrive pre-parsed from the transport layer; the service validates
// them here so out-of-range values never reach the state machine.

type DailyCheckinPayload struct {
	StudentID    string `validate:"required"`
	QuizScore    int    `validate:"min=0,max=10"`
	FocusMinutes int    `validate:"min=0"`
}

type AssignInterventionPayload struct {
	StudentID string `validate:"required"`
	Task      string `validate:"required"`
	Mentor    string `validate:"required"`
}

type CompleteInterventionPayload struct {
	StudentID      string `validate:"required"`
	InterventionID string `validate:"required"`
}

var validate = validator.New()

func validatePayload(p any) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
