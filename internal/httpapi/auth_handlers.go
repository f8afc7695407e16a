package httpapi

import (
	"errors"
	"net/http"

	"taskdeck.org/internal/audit"
	"taskdeck.org/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, auth.ErrMissingPassword):
			writeError(w, r, http.StatusBadRequest, "username and password are required")
		default:
			// Duplicate usernames surface here too; the client gets no
			// detail beyond a generic failure.
			writeError(w, r, http.StatusInternalServerError, "error registering user")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"username": req.Username,
	})
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "error logging in")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"username": req.Username,
	})
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
