package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/auth"
	"github.com/nholm/storefront/internal/domain"
	"github.com/nholm/storefront/internal/service"
)

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type OrderLineDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequestDTO struct {
	Products      []OrderLineDTO `json:"products"`
	Address       domain.Address `json:"address"`
	PaymentMethod string         `json:"paymentMethod"`
	Total         float64        `json:"total"`
	ClearCart     bool           `json:"clearCart"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil || claims.Role != auth.RoleConsumer {
		respondError(w, http.StatusUnauthorized, "unauthorized", "consumer session required")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := make([]service.OrderLineInput, 0, len(req.Products))
	for _, line := range req.Products {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a valid id")
			return
		}
		items = append(items, service.OrderLineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}

	order, err := h.orders.Place(r.Context(), claims.Subject, claims.Name, service.PlaceOrderInput{
		Items:         items,
		Address:       req.Address,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Total:         req.Total,
		ClearCart:     req.ClearCart,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// List serves a consumer their own orders; admins see everything and
// may filter by email.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	filter := r.URL.Query().Get("email")
	if claims.Role != auth.RoleAdmin {
		filter = claims.Subject
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Cancel hard-deletes an order. Consumers can only cancel their own;
// admins can cancel any.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	requestedBy := claims.Subject
	if claims.Role == auth.RoleAdmin {
		requestedBy = ""
	}

	if err := h.orders.Cancel(r.Context(), id, requestedBy); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid order id")
		return primitive.NilObjectID, false
	}
	return id, true
}
