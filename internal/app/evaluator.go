package app

// Outcome is the result of evaluating a daily check-in.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
)

// Evaluator decides whether a check-in passes against the configured
// thresholds. Both comparisons are strict: a quiz score equal to PassScore or
// a focus duration equal to MinFocusMinutes fails.
type Evaluator struct {
	PassScore       int // default 7
	MinFocusMinutes int // default 60
}

// Evaluate is pure and has no error conditions; input ranges are enforced by
// payload validation before the evaluator is reached.
func (e Evaluator) Evaluate(quizScore, focusMinutes int) Outcome {
	if quizScore > e.PassScore && focusMinutes > e.MinFocusMinutes {
		return OutcomePass
	}
	return OutcomeFail
}
