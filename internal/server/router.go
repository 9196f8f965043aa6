// backend/internal/server/router.go
package server

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"quiz-portal/internal/attempt"
	"quiz-portal/internal/auth"
	"quiz-portal/internal/generate"
	"quiz-portal/internal/httpx"
	"quiz-portal/internal/quiz"
	"quiz-portal/internal/resource"
	"quiz-portal/pkg/websocket"
)

// Deps carries the handlers the router mounts.
type Deps struct {
	Validator   *auth.Validator
	Auth        *auth.Handler
	Quiz        *quiz.Handler
	Attempts    *attempt.Handler
	Resources   *resource.Handler
	Generate    *generate.Handler
	Hub         *websocket.Hub
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLog)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	// Anonymous. Logout reads the cookie but does not validate it.
	router.HandleFunc("/api/auth/register", d.Auth.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", d.Auth.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", d.Auth.Logout).Methods(http.MethodPost)

	if d.Hub != nil {
		router.HandleFunc("/ws/groups/{groupId}", d.Hub.HandleWebSocket).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.SessionMiddleware(d.Validator))
	admin := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAdmin(h)
	}

	api.HandleFunc("/auth/me", d.Auth.Me).Methods(http.MethodGet)
	api.HandleFunc("/ws/ticket", d.Auth.IssueTicket).Methods(http.MethodPost)

	api.HandleFunc("/groups", d.Quiz.ListGroups).Methods(http.MethodGet)
	api.Handle("/groups", admin(d.Quiz.CreateGroup)).Methods(http.MethodPost)
	api.HandleFunc("/groups/{groupId}", d.Quiz.GetGroup).Methods(http.MethodGet)
	api.Handle("/groups/{groupId}", admin(d.Quiz.UpdateGroup)).Methods(http.MethodPut)
	api.Handle("/groups/{groupId}", admin(d.Quiz.DeleteGroup)).Methods(http.MethodDelete)

	api.Handle("/groups/{groupId}/questions", admin(d.Quiz.ListQuestions)).Methods(http.MethodGet)
	api.Handle("/groups/{groupId}/questions", admin(d.Quiz.CreateQuestion)).Methods(http.MethodPost)
	api.Handle("/groups/{groupId}/questions/generate", admin(d.Generate.Generate)).Methods(http.MethodPost)
	api.Handle("/questions/{questionId}", admin(d.Quiz.UpdateQuestion)).Methods(http.MethodPut)
	api.Handle("/questions/{questionId}", admin(d.Quiz.DeleteQuestion)).Methods(http.MethodDelete)
	api.Handle("/questions/{questionId}/approve", admin(d.Quiz.ApproveQuestion)).Methods(http.MethodPost)

	api.HandleFunc("/resources", d.Resources.List).Methods(http.MethodGet)
	api.Handle("/groups/{groupId}/resources", admin(d.Resources.Create)).Methods(http.MethodPost)
	api.Handle("/resources/{resourceId}", admin(d.Resources.Delete)).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{groupId}/leaderboard", d.Attempts.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/groups/{groupId}/attempts", d.Attempts.Start).Methods(http.MethodPost)
	api.HandleFunc("/attempts", d.Attempts.History).Methods(http.MethodGet)
	api.HandleFunc("/attempts/{quizSessionId}", d.Attempts.Get).Methods(http.MethodGet)
	api.HandleFunc("/attempts/{quizSessionId}/answers/{number}", d.Attempts.SubmitAnswer).Methods(http.MethodPut)
	api.HandleFunc("/attempts/{quizSessionId}/after-check/{number}", d.Attempts.MarkAfterCheck).Methods(http.MethodPut)
	api.HandleFunc("/attempts/{quizSessionId}/complete", d.Attempts.Complete).Methods(http.MethodPost)
	api.HandleFunc("/attempts/{quizSessionId}/result", d.Attempts.Result).Methods(http.MethodGet)

	api.Handle("/admin/sessions/{sessionId}", admin(d.Auth.DeleteSession)).Methods(http.MethodDelete)
	api.Handle("/admin/users/{userId}", admin(d.Auth.DeleteUser)).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, "Route not found", nil)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return corsMiddleware.Handler(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades pass through the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
