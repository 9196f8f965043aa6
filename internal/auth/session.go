// backend/internal/auth/session.go
package auth

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"quiz-portal/internal/models"
)

const (
	SessionTTL   = 24 * time.Hour
	cookieMaxAge = int(SessionTTL / time.Second)
)

var errVersionCollision = errors.New("rotated session version equals the current one")

// UserExpiry is the sliding account TTL: one month from now.
func UserExpiry(now time.Time) int64 {
	return now.AddDate(0, 1, 0).Unix()
}

func newToken(rnd io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(rnd)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewSession opens a session for userID with a fresh id and version.
func NewSession(userID string, now time.Time, rnd io.Reader) (models.Session, error) {
	sessionID, err := newToken(rnd)
	if err != nil {
		return models.Session{}, err
	}
	version, err := newToken(rnd)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		SessionID:        sessionID,
		UserID:           userID,
		ExpiresAt:        now.Add(SessionTTL).Unix(),
		SessionVersionID: version,
	}, nil
}

// Rotate is the Active(token) -> Active(newToken) transition. It depends only on
// the current state, the clock reading and the randomness source.
func Rotate(current models.Session, now time.Time, rnd io.Reader) (models.Session, error) {
	version, err := newToken(rnd)
	if err != nil {
		return models.Session{}, err
	}
	if version == current.SessionVersionID {
		return models.Session{}, errVersionCollision
	}

	next := current
	next.SessionVersionID = version
	next.ExpiresAt = now.Add(SessionTTL).Unix()
	return next, nil
}
