package httpapi

import (
	"net/http"

	"taskdesk/internal/common"
	"taskdesk/internal/server/services"
)

// Session tokens travel as http-only cookies so scripts can never read them.
// Access and refresh cookies are always set and cleared together.

func (s *Server) setSessionCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, s.sessionCookie(common.AccessTokenCookieName, pair.AccessToken, 0))
	http.SetCookie(w, s.sessionCookie(common.RefreshTokenCookieName, pair.RefreshToken, 0))
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, s.sessionCookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(w, s.sessionCookie(common.RefreshTokenCookieName, "", -1))
}

func (s *Server) sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}
