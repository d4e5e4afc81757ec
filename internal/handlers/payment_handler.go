package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"payment-dashboard/internal/models"
	"payment-dashboard/internal/services"
)

type paymentService interface {
	Create(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) (*models.PaymentList, error)
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	Stats(ctx context.Context) (*models.PaymentStats, error)
	DailyRevenue(ctx context.Context, days int) ([]models.DailyRevenue, error)
}

type PaymentHandler struct {
	payments paymentService
	logger   zerolog.Logger
}

func NewPaymentHandler(payments paymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	payment, err := h.payments.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("Payment creation failed")
		respondWithError(w, http.StatusInternalServerError, "creation_failed", "Failed to create payment")
		return
	}

	respondWithJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	filter := parsePaymentFilter(r)

	result, err := h.payments.List(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list payments")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch payments")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *PaymentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.payments.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute stats")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to compute stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *PaymentHandler) GetRevenueChart(w http.ResponseWriter, r *http.Request) {
	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	series, err := h.payments.DailyRevenue(r.Context(), days)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute daily revenue")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to compute daily revenue")
		return
	}

	respondWithJSON(w, http.StatusOK, series)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_payment_id", "Invalid payment ID")
		return
	}

	payment, err := h.payments.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int("payment_id", id).Msg("Failed to fetch payment")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch payment")
		return
	}
	if payment == nil {
		respondWithError(w, http.StatusNotFound, "payment_not_found", "Payment not found")
		return
	}

	respondWithJSON(w, http.StatusOK, payment)
}

func parsePaymentFilter(r *http.Request) models.PaymentFilter {
	q := r.URL.Query()

	filter := models.PaymentFilter{
		Page:          1,
		Limit:         10,
		Status:        q.Get("status"),
		PaymentMethod: q.Get("payment_method"),
	}

	if pageStr := q.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	filter.DateFrom = parseDateParam(q.Get("date_from"))
	filter.DateTo = parseDateParam(q.Get("date_to"))

	return filter
}

// parseDateParam accepts RFC 3339 timestamps or plain dates (taken as local
// midnight). Unparseable values are treated as absent.
func parseDateParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return &t
	}
	return nil
}
