// backend/internal/auth/ticket.go
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"

	"quiz-portal/internal/apperror"
)

const ticketTTL = 5 * time.Minute

var ErrInvalidTicket = errors.New("invalid websocket ticket")

// TicketIssuer mints short-lived tokens for websocket upgrades. A socket outlives
// the request that opened it, so it cannot take part in session rotation.
type TicketIssuer struct {
	secret []byte
}

func NewTicketIssuer(secret string) *TicketIssuer {
	return &TicketIssuer{secret: []byte(secret)}
}

func (t *TicketIssuer) Issue(id Identity, groupID string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, apperror.New(http.StatusServiceUnavailable, "Live updates are disabled")
	}

	expiresAt := time.Now().Add(ticketTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id.UserID,
		"username": id.AccountName,
		"group_id": groupID,
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the ticket signature, expiry and group, and returns the user id.
func (t *TicketIssuer) Verify(ticket, groupID string) (string, error) {
	if len(t.secret) == 0 || ticket == "" {
		return "", ErrInvalidTicket
	}

	token, err := jwt.ParseWithClaims(ticket, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidTicket
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidTicket
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok {
		return "", ErrInvalidTicket
	}
	if g, _ := (*claims)["group_id"].(string); g != groupID {
		return "", ErrInvalidTicket
	}
	userID, _ := (*claims)["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidTicket
	}
	return userID, nil
}
