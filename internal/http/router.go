package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/auth"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/config"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/logging"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/payments"
)

// Store is the document-store surface the handlers depend on. It is
// satisfied by *contests.Repository and by the in-memory fake in tests.
type Store interface {
	UpsertUser(ctx context.Context, u contests.User) (*contests.User, error)
	GetUser(ctx context.Context, email string) (*contests.User, error)
	ListUsers(ctx context.Context) ([]contests.User, error)
	UpdateUserRole(ctx context.Context, email, role, status string) (*contests.User, error)

	CreateContest(ctx context.Context, c contests.Contest) (*contests.Contest, error)
	ListContests(ctx context.Context) ([]contests.Contest, error)
	ListApproved(ctx context.Context, page, size int64) ([]contests.Contest, error)
	SearchContests(ctx context.Context, term string) ([]contests.Contest, error)
	CountContests(ctx context.Context) (int64, error)
	GetContest(ctx context.Context, id primitive.ObjectID) (*contests.Contest, error)
	ListByCreator(ctx context.Context, email string) ([]contests.Contest, error)
	UpdateContest(ctx context.Context, id primitive.ObjectID, fields bson.M) (*contests.Contest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*contests.Contest, error)
	RecordAttempt(ctx context.Context, id primitive.ObjectID) (*contests.Contest, error)
	AssignWinner(ctx context.Context, id primitive.ObjectID, winner contests.Identity) (*contests.Contest, error)
	PopularContests(ctx context.Context, limit int64) ([]contests.PopularContest, error)
	TopCreators(ctx context.Context, limit int64) ([]contests.CreatorSummary, error)
	DeleteContest(ctx context.Context, id primitive.ObjectID) error

	CreateBooking(ctx context.Context, b contests.Booking) (*contests.Booking, error)
	ListBookingsByCreator(ctx context.Context, email string) ([]contests.Booking, error)
	ListBookingsByUser(ctx context.Context, email string) ([]contests.Booking, error)
	ListWonBookings(ctx context.Context, email string) ([]contests.Booking, error)
	AnnotateWin(ctx context.Context, id primitive.ObjectID, winner contests.Identity) (*contests.Booking, error)
	CountWins(ctx context.Context, email string) (int64, error)
}

type Router struct {
	mux      *chi.Mux
	store    Store
	tokens   *auth.Service
	payments payments.Provider
	logger   *logrus.Entry
}

func NewRouter(store Store, tokens *auth.Service, provider payments.Provider, cfg config.Config, logger *logrus.Entry) http.Handler {
	if logger == nil {
		logger = logging.Logger()
	}
	r := &Router{
		mux:      chi.NewRouter(),
		store:    store,
		tokens:   tokens,
		payments: provider,
		logger:   logger,
	}

	r.mux.Use(chimiddleware.Recoverer)
	r.mux.Use(r.logRequests)
	r.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.routes()
	return r.mux
}

func (r *Router) routes() {
	r.mux.Get("/", r.handleLiveness)

	r.mux.Post("/jwt", r.handleIssueToken)
	r.mux.Get("/logout", r.handleLogout)

	r.mux.Put("/users/{email}", r.handleUpsertUser)
	r.mux.Get("/user/{email}", r.requireAuth(r.handleGetUser))
	r.mux.Get("/users", r.requireRole(contests.RoleAdmin, r.handleListUsers))
	r.mux.Put("/users/update/{email}", r.requireRole(contests.RoleAdmin, r.handleUpdateUserRole))

	r.mux.Post("/contests", r.requireRole(contests.RoleCreator, r.handleCreateContest))
	r.mux.Get("/contests", r.requireRole(contests.RoleAdmin, r.handleListContests))
	r.mux.Get("/contests/search", r.handleSearchContests)
	r.mux.Get("/contests/approved", r.handleListApproved)
	r.mux.Get("/contestsCount", r.handleCountContests)
	r.mux.Get("/contests/popular/data", r.handlePopularContests)
	r.mux.Get("/contests/creator/{email}", r.requireRole(contests.RoleCreator, r.handleListByCreator))
	r.mux.Get("/contests/{id}", r.handleGetContest)
	r.mux.Put("/contests/accept/{id}", r.requireRole(contests.RoleAdmin, r.handleAcceptContest))
	r.mux.Put("/contests/attempt/{id}", r.requireAuth(r.handleRecordAttempt))
	r.mux.Put("/contests/winner/{contestId}", r.requireRole(contests.RoleAdmin, r.handleAssignWinner))
	r.mux.Put("/contests/{id}", r.requireRole(contests.RoleCreator, r.handleUpdateContest))
	r.mux.Delete("/contests/{id}", r.requireRole(contests.RoleCreator, r.handleDeleteContest))

	r.mux.Post("/create-payment-intent", r.requireAuth(r.handleCreatePaymentIntent))

	r.mux.Post("/bookings", r.requireAuth(r.handleCreateBooking))
	r.mux.Get("/bookings/creator/{email}", r.requireRole(contests.RoleCreator, r.handleBookingsByCreator))
	r.mux.Get("/bookings/user/won/{email}", r.requireAuth(r.handleWonBookings))
	r.mux.Get("/bookings/user/{email}", r.requireAuth(r.handleBookingsByUser))
	r.mux.Put("/bookings/submissions/{id}", r.requireRole(contests.RoleCreator, r.handleAnnotateWin))

	r.mux.Get("/user-stat/{email}", r.handleUserStat)
	r.mux.Get("/top-creators-details", r.handleTopCreators)
}

func (r *Router) handleLiveness(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello Contest Hub Server"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// storeError maps repository failures onto the HTTP taxonomy. Unclassified
// errors become a generic 500; details stay in the server log.
func (r *Router) storeError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, contests.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, contests.ErrWinnerAlreadyAssigned):
		writeError(w, http.StatusBadRequest, "Winner already declared for this contest")
	case errors.Is(err, contests.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid contest status")
	default:
		r.logger.WithFields(logging.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
		}).WithError(err).Error("store operation failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseObjectID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	return id, err == nil
}

// emailParam returns the email route parameter, unescaping clients that
// percent-encode the @.
func emailParam(req *http.Request) string {
	raw := chi.URLParam(req, "email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}
