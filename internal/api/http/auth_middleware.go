package httpapi

import (
	"net/http"
	"strings"
)

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.authSvc.Authenticate(r.Context(), extractToken(r))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := withAuthUser(r.Context(), &AuthUser{
			UserID:   u.UserID,
			Username: u.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads a bearer token, falling back to the access_token query
// parameter for EventSource clients that cannot set headers.
func extractToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}
