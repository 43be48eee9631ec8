package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	carts    CartService
	validate *validator.Validate
	maxBody  int64
}

func NewCartHandler(carts CartService, maxBody int64) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: newValidator(),
		maxBody:  maxBody,
	}
}

// GET /api/cart/
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.GetCart(r.Context(), sessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toCartResponseDTO(view))
}

// POST /api/cart/items/
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondValidation(w, r, validationFields(err))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondValidation(w, r, map[string]string{"product_id": "Must be a valid UUID."})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, summary, err := h.carts.AddItem(r.Context(), sessionID(r.Context()), productID, quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	message := fmt.Sprintf("Added %d x %s to cart", quantity, product.Name)
	respondJSON(w, r, http.StatusCreated, toCartSummaryDTO(message, summary))
}

// PUT /api/cart/items/{product_id}/
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequestDTO
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondValidation(w, r, validationFields(err))
		return
	}

	summary, err := h.carts.UpdateItem(r.Context(), sessionID(r.Context()), productID, *req.Quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toCartSummaryDTO("Cart updated", summary))
}

// DELETE /api/cart/items/{product_id}/
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	summary, err := h.carts.RemoveItem(r.Context(), sessionID(r.Context()), productID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toCartSummaryDTO("Item removed from cart", summary))
}

// DELETE /api/cart/ and /api/cart/clear/
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.Clear(r.Context(), sessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toCartSummaryDTO("Cart cleared", summary))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respondValidation(w, r, map[string]string{"product_id": "Must be a valid UUID."})
		return uuid.Nil, false
	}
	return id, true
}
