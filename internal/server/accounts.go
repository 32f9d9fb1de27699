package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"fv-go/internal/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister handles POST /api/register — create a new user account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Missing email or password")
		return
	}

	_, err := s.auth.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeMessage(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.logger.Error("registration failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.logger.Info("user registered", "email", req.Email)
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// handleLogin handles POST /api/login — exchange credentials for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Missing email or password")
		return
	}

	token, err := s.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}
