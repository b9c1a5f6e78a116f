package http

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type CartItemRequestDTO struct {
	ProductID string `json:"productId"`
}

// GetCart returns the session consumer's cart with each line resolved
// against the catalog.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	cart, err := h.carts.Get(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID, ok := decodeCartItem(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.Add(r.Context(), claims.Subject, productID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cart":    cart,
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID, ok := decodeCartItem(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.Remove(r.Context(), claims.Subject, productID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cart":    cart,
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.carts.Clear(r.Context(), claims.Subject); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func decodeCartItem(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	var req CartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return primitive.NilObjectID, false
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a valid id")
		return primitive.NilObjectID, false
	}
	return productID, true
}
