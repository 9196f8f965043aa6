package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
)

type fakeGroups map[string]bool

func (g fakeGroups) GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error) {
	if !g[groupID] {
		return nil, apperror.NotFound("Quiz group not found")
	}
	return &models.QuizGroup{GroupID: groupID}, nil
}

type authTestServer struct {
	repo    *Repository
	service *Service
	router  *mux.Router
}

func newAuthTestServer(t *testing.T, admins ...string) *authTestServer {
	t.Helper()
	repo := newTestRepository(t)
	service := NewService(repo, admins)
	handler := NewHandler(service, NewTicketIssuer("test-secret"), fakeGroups{"group-1": true})
	validator := NewValidator(repo)

	router := mux.NewRouter()
	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", handler.Logout).Methods(http.MethodPost)

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(SessionMiddleware(validator))
	protected.HandleFunc("/auth/me", handler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/ws/ticket", handler.IssueTicket).Methods(http.MethodPost)

	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(SessionMiddleware(validator), RequireAdmin)
	admin.HandleFunc("/users/{userId}", handler.DeleteUser).Methods(http.MethodDelete)

	return &authTestServer{repo: repo, service: service, router: router}
}

func (s *authTestServer) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func responseCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func sessionPair(rec *httptest.ResponseRecorder) []*http.Cookie {
	cookies := responseCookies(rec)
	return []*http.Cookie{
		{Name: CookieSessionID, Value: cookies[CookieSessionID].Value},
		{Name: CookieSessionVersionID, Value: cookies[CookieSessionVersionID].Value},
	}
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v (body %q)", err, rec.Body.String())
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestRegisterRejectsShortAccountName(t *testing.T) {
	s := newAuthTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"abc"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterTwiceConflicts(t *testing.T) {
	s := newAuthTestServer(t)

	first := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"duplicate-name"}`, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201 (%s)", first.Code, first.Body.String())
	}
	second := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"duplicate-name"}`, nil)
	if second.Code != http.StatusConflict {
		t.Fatalf("second status = %d, want 409", second.Code)
	}
}

func TestRegisterSetsSessionCookies(t *testing.T) {
	s := newAuthTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"cookie-checker"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	cookies := responseCookies(rec)
	for _, name := range []string{CookieSessionID, CookieSessionVersionID} {
		c, ok := cookies[name]
		if !ok || c.Value == "" {
			t.Fatalf("missing cookie %s", name)
		}
		if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode || c.Path != "/" || c.MaxAge != 86400 {
			t.Fatalf("cookie %s attributes = %+v", name, c)
		}
	}
	if cookies[CookieUsername].Value != "cookie-checker" || cookies[CookieUsername].HttpOnly {
		t.Fatalf("username cookie = %+v", cookies[CookieUsername])
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	s := newAuthTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/auth/login", `{"accountName":"nobody-home-here"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := messageOf(t, rec); !strings.Contains(msg, "User not found.") {
		t.Fatalf("message = %q", msg)
	}
}

func TestLoginWithPassword(t *testing.T) {
	s := newAuthTestServer(t)
	reg := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"guarded-player","password":"correct horse"}`, nil)
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d", reg.Code)
	}

	bad := s.do(t, http.MethodPost, "/api/auth/login", `{"accountName":"guarded-player","password":"wrong"}`, nil)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", bad.Code)
	}
	good := s.do(t, http.MethodPost, "/api/auth/login", `{"accountName":"guarded-player","password":"correct horse"}`, nil)
	if good.Code != http.StatusOK {
		t.Fatalf("good password status = %d", good.Code)
	}
}

func TestProtectedRouteRotatesCookie(t *testing.T) {
	s := newAuthTestServer(t)
	reg := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"rotating-player"}`, nil)
	pair := sessionPair(reg)

	me := s.do(t, http.MethodGet, "/api/auth/me", "", pair)
	if me.Code != http.StatusOK {
		t.Fatalf("me status = %d (%s)", me.Code, me.Body.String())
	}
	rotated := sessionPair(me)
	if rotated[1].Value == pair[1].Value {
		t.Fatalf("version cookie not rotated")
	}

	stale := s.do(t, http.MethodGet, "/api/auth/me", "", pair)
	if stale.Code != http.StatusUnauthorized {
		t.Fatalf("stale status = %d, want 401", stale.Code)
	}
	if msg := messageOf(t, stale); msg != "Session version mismatch" {
		t.Fatalf("message = %q", msg)
	}

	fresh := s.do(t, http.MethodGet, "/api/auth/me", "", rotated)
	if fresh.Code != http.StatusOK {
		t.Fatalf("rotated token status = %d", fresh.Code)
	}
}

func TestLogoutClearsCookiesAndSession(t *testing.T) {
	s := newAuthTestServer(t)
	reg := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"leaving-player"}`, nil)
	pair := sessionPair(reg)

	out := s.do(t, http.MethodPost, "/api/auth/logout", "", pair)
	if out.Code != http.StatusOK {
		t.Fatalf("logout status = %d", out.Code)
	}
	for name, c := range responseCookies(out) {
		if c.MaxAge >= 0 {
			t.Fatalf("cookie %s not cleared: %+v", name, c)
		}
	}

	if _, err := s.repo.GetSession(context.Background(), pair[0].Value); err != ErrSessionNotFound {
		t.Fatalf("session still present: %v", err)
	}
	after := s.do(t, http.MethodGet, "/api/auth/me", "", pair)
	if after.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d", after.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newAuthTestServer(t, "site-administrator")

	player := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"ordinary-player"}`, nil)
	var body map[string]interface{}
	_ = json.NewDecoder(player.Body).Decode(&body)
	playerID, _ := body["userId"].(string)

	forbidden := s.do(t, http.MethodDelete, "/api/admin/users/"+playerID, "", sessionPair(player))
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", forbidden.Code)
	}

	admin := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"site-administrator","password":"admin-password"}`, nil)
	deleted := s.do(t, http.MethodDelete, "/api/admin/users/"+playerID, "", sessionPair(admin))
	if deleted.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d (%s)", deleted.Code, deleted.Body.String())
	}

	// The deleted account's name is free again and its sessions are gone.
	if _, err := s.repo.GetUserByAccountName(context.Background(), "ordinary-player"); err != ErrUserNotFound {
		t.Fatalf("account reservation survived: %v", err)
	}
	if again := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"ordinary-player"}`, nil); again.Code != http.StatusCreated {
		t.Fatalf("re-register status = %d", again.Code)
	}
}

func TestAdminAccountNeedsPassword(t *testing.T) {
	s := newAuthTestServer(t, "site-administrator")

	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"site-administrator"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if _, err := s.repo.GetUserByAccountName(context.Background(), "site-administrator"); err != ErrUserNotFound {
		t.Fatalf("admin name reserved without a password: %v", err)
	}

	// Without the password the name cannot be taken over at login either.
	reg := s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"site-administrator","password":"admin-password"}`, nil)
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d (%s)", reg.Code, reg.Body.String())
	}
	if login := s.do(t, http.MethodPost, "/api/auth/login", `{"accountName":"site-administrator"}`, nil); login.Code != http.StatusUnauthorized {
		t.Fatalf("login without password status = %d, want 401", login.Code)
	}
}

func TestIssueTicketForUnknownGroup(t *testing.T) {
	s := newAuthTestServer(t)
	pair := sessionPair(s.do(t, http.MethodPost, "/api/auth/register", `{"accountName":"socket-player"}`, nil))

	missing := s.do(t, http.MethodPost, "/api/ws/ticket", `{"groupId":"group-404"}`, pair)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", missing.Code)
	}
	if msg := messageOf(t, missing); msg != "Quiz group not found" {
		t.Fatalf("message = %q", msg)
	}

	ok := s.do(t, http.MethodPost, "/api/ws/ticket", `{"groupId":"group-1"}`, sessionPair(missing))
	if ok.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", ok.Code, ok.Body.String())
	}
}

func TestTicketRoundTrip(t *testing.T) {
	issuer := NewTicketIssuer("test-secret")
	ticket, expiresAt, err := issuer.Issue(Identity{UserID: "user-9", AccountName: "ticket-holder"}, "group-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) > ticketTTL {
		t.Fatalf("expiry too far out: %s", expiresAt)
	}

	userID, err := issuer.Verify(ticket, "group-1")
	if err != nil || userID != "user-9" {
		t.Fatalf("Verify = (%q, %v)", userID, err)
	}
	if _, err := issuer.Verify(ticket, "group-2"); err != ErrInvalidTicket {
		t.Fatalf("ticket accepted for another group")
	}
	if _, err := NewTicketIssuer("other-secret").Verify(ticket, "group-1"); err != ErrInvalidTicket {
		t.Fatalf("ticket accepted with wrong secret")
	}
}

func TestTicketDisabledWithoutSecret(t *testing.T) {
	if _, _, err := NewTicketIssuer("").Issue(Identity{UserID: "u"}, "g"); err == nil {
		t.Fatalf("expected error without secret")
	}
}
