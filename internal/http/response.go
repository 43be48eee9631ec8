package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/logger"
	"github.com/fjod/watchhaven/internal/payment"
	"github.com/fjod/watchhaven/internal/repository"
	"github.com/fjod/watchhaven/internal/service"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message, Code: code})
}

func respondValidation(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	respondJSON(w, r, http.StatusBadRequest, ErrorResponse{
		Error:  "Invalid input.",
		Code:   "validation_error",
		Fields: fields,
	})
}

// decodeJSON reads a single JSON object from the body, capped at limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// handleServiceError is the single place service errors become HTTP statuses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(w, r, verr.Fields)
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondValidation(w, r, map[string]string{"quantity": "Ensure this value is greater than or equal to 1."})
	case errors.Is(err, payment.ErrInvalidCard):
		respondJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid card details.",
			Code:    "validation_error",
			Details: err.Error(),
		})
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, r, http.StatusBadRequest, "empty_cart", "Cart is empty")
	case errors.Is(err, payment.ErrUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, "payment_unavailable", "Payment is temporarily unavailable, please retry later")
	case errors.Is(err, service.ErrPaymentDeclined):
		respondError(w, r, http.StatusPaymentRequired, "payment_declined", "Payment was declined")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, r, http.StatusNotFound, "not_found", "Product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, r, http.StatusNotFound, "not_found", "Order not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		respondError(w, r, http.StatusNotFound, "not_found", "Category not found")
	case errors.Is(err, repository.ErrProductInUse), errors.Is(err, repository.ErrDuplicate):
		respondError(w, r, http.StatusConflict, "conflict", err.Error())
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
