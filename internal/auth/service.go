// backend/internal/auth/service.go
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
)

type Service struct {
	store  Store
	admins map[string]bool
	now    func() time.Time
	rand   io.Reader
}

// NewService creates the account service. Accounts listed in adminAccounts get
// the admin role when they register, and must register with a password.
func NewService(store Store, adminAccounts []string) *Service {
	admins := make(map[string]bool, len(adminAccounts))
	for _, name := range adminAccounts {
		admins[name] = true
	}
	return &Service{
		store:  store,
		admins: admins,
		now:    time.Now,
		rand:   rand.Reader,
	}
}

// Register creates the account and its first session. The password is optional;
// accounts registered without one log in by name alone.
func (s *Service) Register(ctx context.Context, accountName, password string) (*models.User, models.Session, error) {
	now := s.now()

	user := &models.User{
		UserID:      uuid.NewString(),
		AccountName: accountName,
		Role:        models.RoleUser,
		CreatedAt:   now.Unix(),
		LastLoginAt: now.Unix(),
		ExpiresAt:   UserExpiry(now),
	}
	if s.admins[accountName] {
		if password == "" {
			return nil, models.Session{}, apperror.BadRequest("A password is required for this account")
		}
		user.Role = models.RoleAdmin
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.Session{}, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrAccountTaken) {
			return nil, models.Session{}, apperror.Conflict("Account name already exists")
		}
		return nil, models.Session{}, err
	}

	session, err := s.openSession(ctx, user.UserID, now)
	if err != nil {
		return nil, models.Session{}, err
	}

	log.Printf("Registered user %s (%s)", user.UserID, user.AccountName)
	return user, session, nil
}

func (s *Service) Login(ctx context.Context, accountName, password string) (*models.User, models.Session, error) {
	user, err := s.store.GetUserByAccountName(ctx, accountName)
	if errors.Is(err, ErrUserNotFound) {
		return nil, models.Session{}, apperror.NotFound("User not found.")
	}
	if err != nil {
		return nil, models.Session{}, err
	}

	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return nil, models.Session{}, apperror.Unauthorized("Invalid credentials")
		}
	}

	now := s.now()
	user.LastLoginAt = now.Unix()
	user.ExpiresAt = UserExpiry(now)
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, models.Session{}, err
	}

	session, err := s.openSession(ctx, user.UserID, now)
	if err != nil {
		return nil, models.Session{}, err
	}
	return user, session, nil
}

func (s *Service) openSession(ctx context.Context, userID string, now time.Time) (models.Session, error) {
	session, err := NewSession(userID, now, s.rand)
	if err != nil {
		return models.Session{}, err
	}
	if err := s.store.SaveSession(ctx, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Logout drops the session if it still exists. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := s.store.DeleteSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperror.NotFound("User not found.")
	}
	return user, err
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	err := s.store.DeleteSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return apperror.NotFound("Session not found")
	}
	return err
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	err := s.store.DeleteUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return apperror.NotFound("User not found.")
	}
	return err
}
