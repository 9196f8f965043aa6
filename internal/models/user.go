// backend/internal/models/user.go
package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User lives in the key-value store. ExpiresAt is epoch seconds and slides forward
// on every authenticated request.
type User struct {
	UserID       string `json:"userId"`
	AccountName  string `json:"accountName"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	LastLoginAt  int64  `json:"lastLoginAt"`
	ExpiresAt    int64  `json:"expiresAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session backs one logged-in browser. SessionVersionID rotates on every validated
// request.
type Session struct {
	SessionID        string `json:"sessionId"`
	UserID           string `json:"userId"`
	ExpiresAt        int64  `json:"expiresAt"`
	SessionVersionID string `json:"sessionVersionId"`
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt <= now.Unix()
}
