package validators

import (
	"net/http"
	"strings"
)

// SessionCookieName is the HttpOnly cookie set at login.
const SessionCookieName = "session"

// ExtractSessionToken returns the bearer token from the Authorization header,
// falling back to the session cookie. It returns "" when neither is present.
func ExtractSessionToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
