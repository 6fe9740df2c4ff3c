package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/repository"
)

// SessionStore reads upstream API tokens persisted by the login service. The
// gateway only ever reads these keys; writing and expiring them belongs to
// the login flow.
type SessionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, keyPrefix string) *SessionStore {
	if keyPrefix == "" {
		keyPrefix = "fleet:session"
	}
	return &SessionStore{client: client, keyPrefix: keyPrefix}
}

// Token returns the upstream bearer token for the session, or
// repository.ErrNotFound when the session is unknown or expired.
func (s *SessionStore) Token(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", repository.ErrNotFound
	}

	token, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("redis get session token: %w", err)
	}

	if token == "" {
		return "", repository.ErrNotFound
	}
	return token, nil
}

func (s *SessionStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s:token", s.keyPrefix, sessionID)
}

var _ port.SessionStore = (*SessionStore)(nil)
