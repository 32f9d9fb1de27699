package server

import (
	"encoding/json"
	"net/http"

	"fv-go/internal/auth"
	"fv-go/internal/fv"
)

// Server is the HTTP boundary in front of the versioned storage core.
// It translates requests into service calls and typed service errors
// into status codes; it holds no storage logic of its own.
type Server struct {
	svc            *fv.Service
	auth           *auth.Service
	logger         fv.Logger
	maxUploadBytes int64
	corsOrigin     string
	mux            *http.ServeMux
}

// New creates a new Server with all routes registered.
func New(svc *fv.Service, authSvc *auth.Service, logger fv.Logger, maxUploadBytes int64, corsOrigin string) *Server {
	s := &Server{
		svc:            svc,
		auth:           authSvc,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		corsOrigin:     corsOrigin,
		mux:            http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.withCORS(s.mux.ServeHTTP)(w, r)
}

// routes registers all HTTP routes on the server mux.
func (s *Server) routes() {
	// Health
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// Identity
	s.mux.HandleFunc("POST /api/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/login", s.handleLogin)

	// Files
	s.mux.HandleFunc("POST /api/upload", s.requireAuth(s.handleUpload))
	s.mux.HandleFunc("GET /api/{path...}", s.requireAuth(s.handleFetch))
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "fv",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeMessage writes the {"message": ...} shape used for errors and
// simple confirmations.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
