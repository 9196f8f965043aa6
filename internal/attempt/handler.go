// backend/internal/attempt/handler.go
package attempt

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/auth"
	"quiz-portal/internal/httpx"
	"quiz-portal/internal/models"
)

const defaultLeaderboardSize = 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type AnswerRequest struct {
	SelectedChoice string `json:"selectedChoice" validate:"required"`
	CheckedLater   []int  `json:"checkedLater"`
}

type AfterCheckRequest struct {
	AfterCheck   *bool `json:"afterCheck"`
	CheckedLater []int `json:"checkedLater"`
}

func identity(r *http.Request) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return auth.Identity{}, apperror.Unauthorized("Session ID not found")
	}
	return id, nil
}

func questionNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		return 0, apperror.BadRequest("Question number must be an integer")
	}
	return n, nil
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	quizSessionID, resumed, err := h.service.StartOrResume(r.Context(), id.UserID, mux.Vars(r)["groupId"])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	status, message := http.StatusCreated, "Quiz session created"
	if resumed {
		status, message = http.StatusOK, "Quiz session resumed"
	}
	httpx.WriteMessage(w, status, message, map[string]interface{}{
		"quizSessionId": quizSessionID,
		"resumed":       resumed,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	dto, err := h.service.Get(r.Context(), id.UserID, mux.Vars(r)["quizSessionId"])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz session retrieved", map[string]interface{}{"quizSession": dto})
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	number, err := questionNumber(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req AnswerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	dto, err := h.service.SubmitAnswer(r.Context(), id.UserID, mux.Vars(r)["quizSessionId"], number, req.SelectedChoice, req.CheckedLater)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Answer recorded", map[string]interface{}{"quizSession": dto})
}

func (h *Handler) MarkAfterCheck(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	number, err := questionNumber(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req AfterCheckRequest
	if r.ContentLength != 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	}

	dto, err := h.service.MarkAfterCheck(r.Context(), id.UserID, mux.Vars(r)["quizSessionId"], number, req.AfterCheck, req.CheckedLater)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Review mark updated", map[string]interface{}{"quizSession": dto})
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	dto, err := h.service.Complete(r.Context(), id.UserID, id.AccountName, mux.Vars(r)["quizSessionId"])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz submitted", map[string]interface{}{"quizSession": dto})
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	dto, err := h.service.Result(r.Context(), id.UserID, mux.Vars(r)["quizSessionId"])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz result retrieved", map[string]interface{}{"result": dto})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	scores, err := h.service.History(r.Context(), id.UserID, r.URL.Query().Get("groupId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Scores retrieved", map[string]interface{}{"scores": scores})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLeaderboardSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 100 {
			httpx.WriteError(w, r, apperror.BadRequest("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	entries, err := h.service.Leaderboard(r.Context(), mux.Vars(r)["groupId"], limit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	httpx.WriteMessage(w, http.StatusOK, "Leaderboard retrieved", map[string]interface{}{"leaderboard": entries})
}
