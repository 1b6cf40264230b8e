package httpapi

import (
	"context"
	"net/http"
	"strings"

	"taskdesk/internal/common"
)

type ctxKey string

const principalKey ctxKey = "principal"

// Principal is the authenticated caller, established once at the boundary
// and threaded through the request context. Handlers never re-parse tokens.
type Principal struct {
	UserID   string
	Username string
	Email    string
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// requireAuth rejects requests without a valid access token. The token is
// read from the Authorization bearer header or the access cookie.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if c, err := r.Cookie(common.AccessTokenCookieName); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			respondError(w, common.ErrorUnauthorized)
			return
		}

		claims, err := s.tokens.ParseAccess(token)
		if err != nil {
			respondError(w, err)
			return
		}

		principal := Principal{UserID: claims.UserID, Username: claims.Username, Email: claims.Email}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
