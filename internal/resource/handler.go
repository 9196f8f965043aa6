// backend/internal/resource/handler.go
package resource

import (
	"net/http"
	"strings"

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

// List accepts repeated ?groupId= values as well as a comma-separated list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var groupIDs []string
	for _, v := range r.URL.Query()["groupId"] {
		groupIDs = append(groupIDs, strings.Split(v, ",")...)
	}

	resources, err := h.service.ListForGroups(r.Context(), groupIDs)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Resources retrieved", map[string]interface{}{"resources": resources})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, _ := auth.IdentityFrom(r.Context())
	res, err := h.service.Create(r.Context(), mux.Vars(r)["groupId"], in, id.AccountName)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Resource created", map[string]interface{}{"resource": res})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["resourceId"]); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Resource deleted", nil)
}
