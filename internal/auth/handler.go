// backend/internal/auth/handler.go
package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/httpx"
	"quiz-portal/internal/models"
)

// GroupLookup resolves the group a websocket ticket is issued for.
type GroupLookup interface {
	GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error)
}

type Handler struct {
	service *Service
	tickets *TicketIssuer
	groups  GroupLookup
}

func NewHandler(service *Service, tickets *TicketIssuer, groups GroupLookup) *Handler {
	return &Handler{service: service, tickets: tickets, groups: groups}
}

type LoginRequest struct {
	AccountName string `json:"accountName" validate:"required,max=64"`
	Password    string `json:"password,omitempty" validate:"max=72"`
}

type RegisterRequest struct {
	AccountName string `json:"accountName" validate:"required,min=10,max=64,accountname"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

type TicketRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	user, session, err := h.service.Register(r.Context(), req.AccountName, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	SetSessionCookies(w, session.SessionID, session.SessionVersionID, user.AccountName)
	httpx.WriteMessage(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"userId":      user.UserID,
		"accountName": user.AccountName,
		"role":        user.Role,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	user, session, err := h.service.Login(r.Context(), req.AccountName, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	SetSessionCookies(w, session.SessionID, session.SessionVersionID, user.AccountName)
	httpx.WriteMessage(w, http.StatusOK, "Login successful", map[string]interface{}{
		"userId":      user.UserID,
		"accountName": user.AccountName,
		"role":        user.Role,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := ReadSessionCookies(r)
	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	ClearSessionCookies(w)
	httpx.WriteMessage(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	user, err := h.service.GetUser(r.Context(), id.UserID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "OK", map[string]interface{}{
		"userId":      user.UserID,
		"accountName": user.AccountName,
		"role":        user.Role,
		"createdAt":   user.CreatedAt,
		"lastLoginAt": user.LastLoginAt,
	})
}

func (h *Handler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if _, err := h.groups.GetGroup(r.Context(), req.GroupID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, _ := IdentityFrom(r.Context())
	ticket, expiresAt, err := h.tickets.Issue(id, req.GroupID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "OK", map[string]interface{}{
		"ticket":    ticket,
		"expiresAt": expiresAt.Unix(),
	})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		httpx.WriteError(w, r, apperror.BadRequest("sessionId is required"))
		return
	}
	if err := h.service.DeleteSession(r.Context(), sessionID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Session deleted", nil)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		httpx.WriteError(w, r, apperror.BadRequest("userId is required"))
		return
	}
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "User deleted", nil)
}
