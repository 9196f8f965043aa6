// backend/internal/auth/cookies.go
package auth

import (
	"net/http"
)

const (
	CookieSessionID        = "sessionId"
	CookieSessionVersionID = "sessionVersionId"
	CookieUsername         = "username"
)

func sessionCookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetSessionCookies writes the cookie pair plus the display-only username cookie.
func SetSessionCookies(w http.ResponseWriter, sessionID, versionID, accountName string) {
	http.SetCookie(w, sessionCookie(CookieSessionID, sessionID, cookieMaxAge, true))
	http.SetCookie(w, sessionCookie(CookieSessionVersionID, versionID, cookieMaxAge, true))
	http.SetCookie(w, sessionCookie(CookieUsername, accountName, cookieMaxAge, false))
}

// ClearSessionCookies expires all three cookies (Max-Age=0 on the wire).
func ClearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(CookieSessionID, "", -1, true))
	http.SetCookie(w, sessionCookie(CookieSessionVersionID, "", -1, true))
	http.SetCookie(w, sessionCookie(CookieUsername, "", -1, false))
}

// ReadSessionCookies returns empty strings for missing cookies.
func ReadSessionCookies(r *http.Request) (sessionID, versionID string) {
	if c, err := r.Cookie(CookieSessionID); err == nil {
		sessionID = c.Value
	}
	if c, err := r.Cookie(CookieSessionVersionID); err == nil {
		versionID = c.Value
	}
	return sessionID, versionID
}
