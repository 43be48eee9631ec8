package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrdersHandler struct {
	orders OrderService
}

func NewOrdersHandler(orders OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// GET /api/orders/{order_id}/
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	// a malformed id cannot name an order
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, "not_found", "Order not found")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toOrderDTO(order))
}
