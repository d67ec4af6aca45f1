package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
)

type createBookingRequest struct {
	ContestID   string            `json:"contestId"`
	ContestName string            `json:"contestname"`
	Creator     string            `json:"creator"`
	User        contests.Identity `json:"user"`
}

func (r *Router) handleCreateBooking(w http.ResponseWriter, req *http.Request) {
	var in createBookingRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	contestID, ok := parseObjectID(in.ContestID)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid contestId")
		return
	}
	if in.User.Email == "" {
		in.User.Email = claimsFrom(req.Context()).Email
	}

	booking, err := r.store.CreateBooking(req.Context(), contests.Booking{
		ContestID:    contestID,
		ContestName:  in.ContestName,
		CreatorEmail: in.Creator,
		User:         in.User,
	})
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (r *Router) handleBookingsByCreator(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.ListBookingsByCreator(req.Context(), emailParam(req))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleBookingsByUser(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.ListBookingsByUser(req.Context(), emailParam(req))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleWonBookings(w http.ResponseWriter, req *http.Request) {
	list, err := r.store.ListWonBookings(req.Context(), emailParam(req))
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleAnnotateWin mirrors a declared winner onto the submission. The
// annotation is overwritable; the write-once rule lives on the contest.
func (r *Router) handleAnnotateWin(w http.ResponseWriter, req *http.Request) {
	id, ok := parseObjectID(chi.URLParam(req, "id"))
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

	booking, err := r.store.AnnotateWin(req.Context(), id, winner)
	if err != nil {
		r.storeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
