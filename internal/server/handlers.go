package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/service"
	"github.com/go-chi/chi/v5"
)

type handlers struct {
	store   service.Store
	metrics *Metrics
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "internal error"

	switch {
	case errors.Is(err, common.ErrNotFound):
		status, message = http.StatusNotFound, "market not found"
	case errors.Is(err, common.ErrCouponsExhausted):
		status, message = http.StatusConflict, "no coupons left for this market"
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{Message: message})
}

func (h *handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.GetCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *handlers) listVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.store.GetVenuesByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (h *handlers) getVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.store.GetVenue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

// redeemCoupon takes one coupon from the market whose id was encoded in the
// scanned QR code.
func (h *handlers) redeemCoupon(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "id")

	coupon, err := h.store.RedeemCoupon(r.Context(), venueID)
	if err != nil {
		h.metrics.Redemption(false)
		writeError(w, r, err)
		return
	}

	h.metrics.Redemption(true)
	slog.Info("coupon issued", "market", venueID)
	writeJSON(w, http.StatusOK, coupon)
}
