package port

import "context"

// SessionStore reads authentication material persisted by the login service.
// The gateway never writes session state.
type SessionStore interface {
	Token(ctx context.Context, sessionID string) (string, error)
}
