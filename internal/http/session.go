package http

import (
	"encoding/json"
	"net/http"
)

type issueTokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// handleIssueToken signs a session token for the supplied identity and sets
// it as an http-only cookie. The token is also returned for callers that
// prefer the Authorization header.
func (r *Router) handleIssueToken(w http.ResponseWriter, req *http.Request) {
	var in issueTokenRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if in.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := r.tokens.Issue(in.Email, in.Name)
	if err != nil {
		r.logger.WithError(err).Error("token signing failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, r.tokens.SessionCookie(token))
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}{Success: true, Token: token})
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	http.SetCookie(w, r.tokens.ClearedCookie())
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
