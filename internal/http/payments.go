package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/payments"
)

type paymentIntentRequest struct {
	Price float64 `json:"price"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// handleCreatePaymentIntent charges in the currency's smallest unit. An
// invalid price is rejected before the provider is called.
func (r *Router) handleCreatePaymentIntent(w http.ResponseWriter, req *http.Request) {
	var in paymentIntentRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	amount := int64(math.Round(in.Price * 100))
	if in.Price <= 0 || amount < 1 {
		writeError(w, http.StatusBadRequest, "price must be greater than 0")
		return
	}

	secret, err := r.payments.CreateIntent(req.Context(), amount)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "price must be greater than 0")
			return
		}
		r.logger.WithError(err).Error("payment intent creation failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, paymentIntentResponse{ClientSecret: secret})
}
