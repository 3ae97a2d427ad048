package app

import "errors"

// Application-level errors. Not-found conditions are reported with the
// repository sentinels (database.ErrStudentNotFound and friends) and wrapped
// on the way up, so callers match them with errors.Is.
var (
	// ErrInterventionMismatch - the intervention exists but belongs to a
	// different student than the one named in the request.
	ErrInterventionMismatch = errors.New("intervention does not belong to the given student")

	// ErrValidation - a caller-supplied value is outside the operation's
	// contract. Wraps the underlying validator detail.
	ErrValidation = errors.New("invalid payload")
)
