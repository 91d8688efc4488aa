package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// HTTPHandler exposes account management over REST. Session tokens
// minted here are what the websocket join handshake accepts.
type HTTPHandler struct {
	svc Service
}

func NewHTTPHandler(svc Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", h.credentialRoute(h.svc.Register))
	mux.HandleFunc("/api/auth/login", h.credentialRoute(h.svc.Login))
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
	mux.HandleFunc("/api/auth/me", h.handleMe)
}

type sessionReply struct {
	PlayerID     uint64 `json:"player_id"`
	Username     string `json:"username,omitempty"`
	SessionToken string `json:"session_token,omitempty"`
}

// credentialRoute serves register and login, which share one shape:
// credentials in, an authenticated session out.
func (h *HTTPHandler) credentialRoute(authenticate func(username, password string) (uint64, string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			replyError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&creds); err != nil {
			replyError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		playerID, token, err := authenticate(creds.Username, creds.Password)
		if err != nil {
			replyError(w, credentialStatus(err), credentialMessage(err))
			return
		}
		reply(w, http.StatusOK, sessionReply{PlayerID: playerID, SessionToken: token})
	}
}

func credentialStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// credentialMessage hides internal failures and keeps the credential
// mismatch message uniform so usernames cannot be probed.
func credentialMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrUsernameTaken):
		return err.Error()
	}
	return "authentication failed"
}

func (h *HTTPHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		replyError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	token, ok := sessionToken(r)
	if !ok {
		replyError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	h.svc.Logout(token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		replyError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	token, ok := sessionToken(r)
	if !ok {
		replyError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	playerID, username, ok := h.svc.ResolveSession(token)
	if !ok {
		replyError(w, http.StatusUnauthorized, "invalid session token")
		return
	}
	reply(w, http.StatusOK, sessionReply{PlayerID: playerID, Username: username})
}

// sessionToken pulls the bearer token off the Authorization header.
func sessionToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	token := strings.TrimSpace(raw[len(prefix):])
	return token, token != ""
}

func reply(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func replyError(w http.ResponseWriter, status int, msg string) {
	reply(w, status, map[string]string{"error": msg})
}
