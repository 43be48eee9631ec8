package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkout CheckoutService
	validate *validator.Validate
	maxBody  int64
}

func NewCheckoutHandler(checkout CheckoutService, maxBody int64) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		validate: newValidator(),
		maxBody:  maxBody,
	}
}

// POST /api/checkout/
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondValidation(w, r, validationFields(err))
		return
	}

	order, err := h.checkout.Checkout(r.Context(), sessionID(r.Context()), req.toInput())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toOrderDTO(order))
}
