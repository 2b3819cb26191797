package scoring

// ValidationError reports caller-supplied numeric input that violates an
// engine invariant. Always recoverable: the admin screen re-prompts.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
