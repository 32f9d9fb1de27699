package server

import (
	"net/http"
	"strings"
)

// authedHandler is a handler that runs with a verified owner identity.
type authedHandler func(w http.ResponseWriter, r *http.Request, ownerID int64)

// requireAuth wraps a handler so it only runs with a valid bearer
// token. The owner ID extracted from the token is the only identity the
// storage core ever sees.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		ownerID, err := s.auth.VerifyToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next(w, r, ownerID)
	}
}

// withCORS adds CORS headers for the configured origin and answers
// preflight requests. With no origin configured it is a no-op.
func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	if s.corsOrigin == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
