package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
)

const (
	popularLimit     = 5
	topCreatorsLimit = 3
)

func (r *Router) handleCreateContest(w http.ResponseWriter, req *http.Request) {
	var in contests.Contest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "contestname is required")
		return
	}
	if in.Creator.Email == "" {
		// the gate guarantees a claim is present
		claims := claimsFrom(req.Context())
		in.Creator.Email = claims.Email
		if in.Creator.Name == "" {
			in.Creator.Name = claims.Name
		}
	}

	created, err := r.store.CreateContest(req.Context(), in)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (r *Router) handleListContests(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.ListContests(req.Context())
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleSearchContests(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.SearchContests(req.Context(), req.URL.Query().Get("searchTerm"))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleListApproved(w http.ResponseWriter, req *http.Request) {
	page, err := queryInt(req, "page", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := queryInt(req, "size", contests.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size")
		return
	}
	if page < 0 || size < 0 {
		writeError(w, http.StatusBadRequest, "page and size must be non-negative")
		return
	}

	list, err := r.store.ListApproved(req.Context(), page, size)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleCountContests(w http.ResponseWriter, req *http.Request) {
	count, err := r.store.CountContests(req.Context())
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Count int64 `json:"count"`
	}{Count: count})
}

func (r *Router) handleGetContest(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	contest, err := r.store.GetContest(req.Context(), id)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

func (r *Router) handleListByCreator(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.ListByCreator(req.Context(), emailParam(req))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleUpdateContest(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var fields bson.M
	if err := json.NewDecoder(req.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "empty update")
		return
	}

	contest, err := r.store.UpdateContest(req.Context(), id, fields)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

type acceptRequest struct {
	Status string `json:"status"`
}

func (r *Router) handleAcceptContest(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var in acceptRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	contest, err := r.store.SetStatus(req.Context(), id, in.Status)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

func (r *Router) handleRecordAttempt(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	contest, err := r.store.RecordAttempt(req.Context(), id)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

func (r *Router) handleAssignWinner(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "contestId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var winner contests.Identity
	if err := json.NewDecoder(req.Body).Decode(&winner); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if winner.Email == "" {
		writeError(w, http.StatusBadRequest, "winner email is required")
		return
	}

	contest, err := r.store.AssignWinner(req.Context(), id, winner)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

func (r *Router) handlePopularContests(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.PopularContests(req.Context(), popularLimit)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleTopCreators(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.TopCreators(req.Context(), topCreatorsLimit)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleDeleteContest(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := r.store.DeleteContest(req.Context(), id); err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func queryInt(req *http.Request, key string, fallback int64) (int64, error) {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
