package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	cartdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	cartsvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/service"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/discount"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	carts     *cartsvc.Service
	discounts *discount.Validator
}

func NewCartHandler(carts *cartsvc.Service, discounts *discount.Validator) *CartHandler {
	return &CartHandler{carts: carts, discounts: discounts}
}

type AddItemRequestDTO struct {
	VariantID        string          `json:"variant_id"`
	ProductTitle     string          `json:"product_title"`
	VariantName      string          `json:"variant_name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	ImageRef         string          `json:"image_ref"`
	BundleMultiplier int             `json:"bundle_multiplier"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyDiscountRequestDTO struct {
	Code string `json:"code"`
}

type CartResponseDTO struct {
	Cart     cartdomain.Cart `json:"cart"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

func (h *CartHandler) cart(w http.ResponseWriter, r *http.Request) (*cartsvc.Aggregate, bool) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return nil, false
	}
	cart, err := h.carts.Cart(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "try again")
		return nil, false
	}
	return cart, true
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, cart *cartsvc.Aggregate) {
	respondJSON(w, status, CartResponseDTO{
		Cart:     cart.Snapshot(),
		Subtotal: cart.Subtotal(),
		Count:    cart.Count(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.VariantID == "" {
		respondError(w, http.StatusBadRequest, "invalid_variant", "variant_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	item := cartdomain.LineItem{
		VariantID:        req.VariantID,
		ProductTitle:     req.ProductTitle,
		VariantName:      req.VariantName,
		UnitPrice:        req.UnitPrice,
		Quantity:         req.Quantity,
		ImageRef:         req.ImageRef,
		BundleMultiplier: cartdomain.BundleMultiplier(req.BundleMultiplier),
	}
	if err := cart.Add(r.Context(), item); err != nil {
		handleCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	variantID := chi.URLParam(r, "variantID")
	if err := cart.SetQuantity(r.Context(), variantID, req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	if err := cart.Remove(r.Context(), chi.URLParam(r, "variantID")); err != nil {
		handleCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req ApplyDiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	applied, err := h.discounts.Validate(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, discount.ErrNotFound) {
			respondError(w, http.StatusUnprocessableEntity, "invalid_code", "invalid code")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "try again")
		return
	}

	if err := cart.ApplyDiscount(r.Context(), *applied); err != nil {
		handleCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	if err := cart.RemoveDiscount(r.Context()); err != nil {
		handleCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, cart)
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartsvc.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be a positive integer")
	case errors.Is(err, cartsvc.ErrInvalidBundle):
		respondError(w, http.StatusBadRequest, "invalid_bundle", "bundle multiplier must be 1, 2 or 3")
	default:
		respondError(w, http.StatusInternalServerError, "internal", "try again")
	}
}
