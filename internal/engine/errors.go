package engine

// PermissionError means the actor lacks authorization for the requested
// team/user scope. The action is rejected with no partial effect.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string { return e.Msg }

// NotFoundError means a referenced user, team, or week record does not exist
// where existence was assumed. Surfaced as a no-op failure.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }
