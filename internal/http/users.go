package http

import (
	"encoding/json"
	"net/http"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
)

type upsertUserRequest struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// handleUpsertUser records a user on first login. Re-upserting an existing
// user is a no-op unless the payload requests the creator role.
func (r *Router) handleUpsertUser(w http.ResponseWriter, req *http.Request) {
	email := emailParam(req)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	var in upsertUserRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := r.store.UpsertUser(req.Context(), contests.User{
		Email:  email,
		Name:   in.Name,
		Image:  in.Image,
		Role:   in.Role,
		Status: in.Status,
	})
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (r *Router) handleGetUser(w http.ResponseWriter, req *http.Request) {
	user, err := r.store.GetUser(req.Context(), emailParam(req))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.store.ListUsers(req.Context())
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type updateRoleRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (r *Router) handleUpdateUserRole(w http.ResponseWriter, req *http.Request) {
	email := emailParam(req)

	var in updateRoleRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !contests.ValidRole(in.Role) {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := r.store.UpdateUserRole(req.Context(), email, in.Role, in.Status)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (r *Router) handleUserStat(w http.ResponseWriter, req *http.Request) {
	wins, err := r.store.CountWins(req.Context(), emailParam(req))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Wins int64 `json:"wins"`
	}{Wins: wins})
}
