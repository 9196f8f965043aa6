// backend/internal/auth/validator.go
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"time"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
)

// Identity is what a successful validation hands to the rest of the request.
type Identity struct {
	UserID           string
	AccountName      string
	Role             string
	SessionID        string
	SessionVersionID string // the freshly rotated token
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type Validator struct {
	store Store
	now   func() time.Time
	rand  io.Reader
}

func NewValidator(store Store) *Validator {
	return &Validator{
		store: store,
		now:   time.Now,
		rand:  rand.Reader,
	}
}

// Validate checks the cookie pair and, on success, slides both the session and the
// owning user forward. It mutates state, so run it once per request.
func (v *Validator) Validate(ctx context.Context, sessionID, versionID string) (Identity, error) {
	if sessionID == "" {
		return Identity{}, apperror.Unauthorized("Session ID not found")
	}

	session, err := v.store.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return Identity{}, apperror.Unauthorized("Invalid session")
	}
	if err != nil {
		return Identity{}, fmt.Errorf("get session: %w", err)
	}

	// A lapsed session reports expiry whatever token came with it.
	now := v.now()
	if session.Expired(now) {
		return Identity{}, apperror.Unauthorized("Session expired")
	}

	if subtle.ConstantTimeCompare([]byte(session.SessionVersionID), []byte(versionID)) != 1 {
		return Identity{}, apperror.Unauthorized("Session version mismatch")
	}

	user, err := v.store.GetUser(ctx, session.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return Identity{}, apperror.Unauthorized("Invalid session")
	}
	if err != nil {
		return Identity{}, fmt.Errorf("get user: %w", err)
	}

	user.LastLoginAt = now.Unix()
	user.ExpiresAt = UserExpiry(now)
	if err := v.store.SaveUser(ctx, user); err != nil {
		return Identity{}, fmt.Errorf("refresh user ttl: %w", err)
	}

	rotated, err := Rotate(*session, now, v.rand)
	if err != nil {
		return Identity{}, fmt.Errorf("rotate session: %w", err)
	}
	if err := v.store.SaveSession(ctx, &rotated); err != nil {
		return Identity{}, fmt.Errorf("save session: %w", err)
	}

	return Identity{
		UserID:           user.UserID,
		AccountName:      user.AccountName,
		Role:             user.Role,
		SessionID:        rotated.SessionID,
		SessionVersionID: rotated.SessionVersionID,
	}, nil
}
