// backend/internal/generate/handler.go
package generate

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, _ := auth.IdentityFrom(r.Context())
	result, err := h.service.Generate(r.Context(), mux.Vars(r)["groupId"], req, id.AccountName)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Questions generated for review", map[string]interface{}{
		"questions": result.Questions,
		"skipped":   result.Skipped,
	})
}
