// backend/internal/auth/repository.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"quiz-portal/internal/models"
)

const (
	userKeyPrefix         = "user:"
	accountKeyPrefix      = "account:"
	sessionKeyPrefix      = "session:"
	userSessionsKeyPrefix = "usersessions:"

	// Keys outlive their ExpiresAt a little so a just-lapsed session is reported
	// as expired rather than unknown.
	keyRetention = time.Hour
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountTaken    = errors.New("account name already taken")
	ErrSessionNotFound = errors.New("session not found")
)

// Store is the key-value surface the validator and the account service need.
type Store interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByAccountName(ctx context.Context, accountName string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

func keyTTL(expiresAt int64) time.Duration {
	ttl := time.Until(time.Unix(expiresAt, 0)) + keyRetention
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

func (r *Repository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	data, err := r.client.Get(ctx, userKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByAccountName(ctx context.Context, accountName string) (*models.User, error) {
	userID, err := r.client.Get(ctx, accountKeyPrefix+accountName).Result()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetUser(ctx, userID)
}

// CreateUser writes the user and its account-name reservation together. The
// reservation key is watched, so a concurrent registration of the same name
// aborts one of the two transactions.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	accountKey := accountKeyPrefix + user.AccountName
	ttl := keyTTL(user.ExpiresAt)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, accountKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrAccountTaken
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, accountKey, user.UserID, ttl)
			pipe.Set(ctx, userKeyPrefix+user.UserID, data, ttl)
			return nil
		})
		return err
	}, accountKey)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrAccountTaken
	}
	if err != nil && !errors.Is(err, ErrAccountTaken) {
		log.Printf("Error creating user %s: %v", user.AccountName, err)
	}
	return err
}

// SaveUser overwrites the user and slides the reservation's TTL with it.
func (r *Repository) SaveUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	ttl := keyTTL(user.ExpiresAt)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, userKeyPrefix+user.UserID, data, ttl)
	pipe.Expire(ctx, accountKeyPrefix+user.AccountName, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteUser removes the user, the reservation and every session it still owns.
func (r *Repository) DeleteUser(ctx context.Context, userID string) error {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	sessionIDs, err := r.client.SMembers(ctx, userSessionsKeyPrefix+userID).Result()
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, userKeyPrefix+userID, accountKeyPrefix+user.AccountName, userSessionsKeyPrefix+userID)
	for _, id := range sessionIDs {
		pipe.Del(ctx, sessionKeyPrefix+id)
	}
	_, err = pipe.Exec(ctx)
	if err == nil {
		log.Printf("Deleted user %s with %d sessions", userID, len(sessionIDs))
	}
	return err
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *Repository) SaveSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := keyTTL(session.ExpiresAt)
	indexKey := userSessionsKeyPrefix + session.UserID
	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.SessionID, data, ttl)
	pipe.SAdd(ctx, indexKey, session.SessionID)
	pipe.Expire(ctx, indexKey, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)
	pipe.SRem(ctx, userSessionsKeyPrefix+session.UserID, sessionID)
	_, err = pipe.Exec(ctx)
	return err
}
