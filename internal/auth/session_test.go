package auth

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"quiz-portal/internal/models"
)

func TestRotateIssuesNewVersionAndSlidesExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := models.Session{
		SessionID:        "s-1",
		UserID:           "u-1",
		ExpiresAt:        now.Add(time.Hour).Unix(),
		SessionVersionID: "v-old",
	}

	next, err := Rotate(current, now, rand.Reader)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if next.SessionVersionID == current.SessionVersionID || next.SessionVersionID == "" {
		t.Fatalf("version not rotated: %q", next.SessionVersionID)
	}
	if next.ExpiresAt != now.Add(24*time.Hour).Unix() {
		t.Fatalf("expiresAt = %d, want now+1d", next.ExpiresAt)
	}
	if next.SessionID != current.SessionID || next.UserID != current.UserID {
		t.Fatalf("identity fields changed: %+v", next)
	}
	if current.SessionVersionID != "v-old" {
		t.Fatalf("input session mutated")
	}
}

func TestRotateIsDeterministicForASource(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	seed := bytes.Repeat([]byte{0x42}, 16)
	current := models.Session{SessionID: "s-1", SessionVersionID: "v-old"}

	a, err := Rotate(current, now, bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	b, err := Rotate(current, now, bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if a != b {
		t.Fatalf("same inputs gave %+v and %+v", a, b)
	}
}

func TestRotateRejectsCollision(t *testing.T) {
	seed := bytes.Repeat([]byte{0x07}, 16)
	same, err := uuid.NewRandomFromReader(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}

	current := models.Session{SessionID: "s-1", SessionVersionID: same.String()}
	if _, err := Rotate(current, time.Now(), bytes.NewReader(seed)); !errors.Is(err, errVersionCollision) {
		t.Fatalf("err = %v, want collision", err)
	}
}

func TestNewSessionExpiresInOneDay(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s, err := NewSession("u-1", now, rand.Reader)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.SessionID == "" || s.SessionVersionID == "" || s.SessionID == s.SessionVersionID {
		t.Fatalf("bad tokens: %+v", s)
	}
	if s.ExpiresAt != now.Unix()+86400 {
		t.Fatalf("expiresAt = %d", s.ExpiresAt)
	}
}
