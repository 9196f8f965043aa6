// backend/internal/quiz/handler.go
package quiz

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/auth"
	"quiz-portal/internal/httpx"
	"quiz-portal/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func creator(r *http.Request) string {
	id, _ := auth.IdentityFrom(r.Context())
	return id.AccountName
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if groups == nil {
		groups = []models.QuizGroup{}
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz groups retrieved", map[string]interface{}{"groups": groups})
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.service.GetGroup(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz group retrieved", map[string]interface{}{"group": group})
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var in GroupInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), in, creator(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Quiz group created", map[string]interface{}{"group": group})
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var in GroupInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	group, err := h.service.UpdateGroup(r.Context(), mux.Vars(r)["groupId"], in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz group updated", map[string]interface{}{"group": group})
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGroup(r.Context(), mux.Vars(r)["groupId"]); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Quiz group deleted", nil)
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != models.QuestionStatusApproved && status != models.QuestionStatusPending {
		httpx.WriteError(w, r, apperror.BadRequest("status must be approved or pending"))
		return
	}

	questions, err := h.service.ListQuestions(r.Context(), mux.Vars(r)["groupId"], status)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	httpx.WriteMessage(w, http.StatusOK, "Questions retrieved", map[string]interface{}{"questions": questions})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in QuestionInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	question, err := h.service.CreateQuestion(r.Context(), mux.Vars(r)["groupId"], in, creator(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Question created", map[string]interface{}{"question": question})
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var in QuestionInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	question, err := h.service.UpdateQuestion(r.Context(), mux.Vars(r)["questionId"], in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Question updated", map[string]interface{}{"question": question})
}

func (h *Handler) ApproveQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.ApproveQuestion(r.Context(), mux.Vars(r)["questionId"])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Question approved", map[string]interface{}{"question": question})
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuestion(r.Context(), mux.Vars(r)["questionId"]); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Question deleted", nil)
}
