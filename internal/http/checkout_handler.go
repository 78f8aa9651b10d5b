package http

import (
	"encoding/json"
	"errors"
	"net/http"

	cartsvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/service"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/checkout"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/payment"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/pricing"
)

type CheckoutHandler struct {
	sessions *checkout.Manager
	carts    *cartsvc.Service
	regions  *pricing.Table
	engine   *pricing.Engine
}

func NewCheckoutHandler(sessions *checkout.Manager, carts *cartsvc.Service, regions *pricing.Table, engine *pricing.Engine) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, carts: carts, regions: regions, engine: engine}
}

type SubmitAddressResponseDTO struct {
	State        checkout.State `json:"state"`
	Quote        pricing.Quote  `json:"quote"`
	ClientSecret string         `json:"client_secret"`
}

type ConfirmPaymentRequestDTO struct {
	IntentReference string `json:"intent_reference"`
	BillingName     string `json:"billing_name"`
	BillingEmail    string `json:"billing_email"`
}

type StateResponseDTO struct {
	State checkout.State `json:"state"`
	Quote *pricing.Quote `json:"quote,omitempty"`
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return nil, false
	}
	session, err := h.sessions.Session(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "try again")
		return nil, false
	}
	return session, true
}

// PreviewQuote prices the current cart for a country without touching the
// checkout session, for the cart page sidebar.
func (h *CheckoutHandler) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}
	cart, err := h.carts.Cart(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "try again")
		return
	}

	snapshot := cart.Snapshot()
	region := h.regions.Lookup(r.URL.Query().Get("country"))
	quote := h.engine.Quote(snapshot.Items, snapshot.Discount, region)
	respondJSON(w, http.StatusOK, quote)
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, StateResponseDTO{State: session.State(), Quote: session.Quote()})
}

func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var address checkout.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	quote, clientSecret, err := session.SubmitAddress(r.Context(), address)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SubmitAddressResponseDTO{
		State:        session.State(),
		Quote:        *quote,
		ClientSecret: clientSecret,
	})
}

func (h *CheckoutHandler) EditAddress(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.EditAddress(); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, StateResponseDTO{State: session.State()})
}

func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ConfirmPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := session.ConfirmPayment(r.Context(), req.IntentReference, payment.BillingDetails{
		Name:  req.BillingName,
		Email: req.BillingEmail,
	})
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// handleCheckoutError translates domain errors into the closed set of
// buyer-facing responses. Internal detail never leaks.
func handleCheckoutError(w http.ResponseWriter, err error) {
	var verrs checkout.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondFieldErrors(w, verrs)
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
	case errors.Is(err, checkout.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_state", "operation not allowed right now")
	case errors.Is(err, checkout.ErrStaleIntent):
		respondError(w, http.StatusConflict, "stale_intent", "payment session expired, submit your address again")
	case errors.Is(err, checkout.ErrPaymentDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", "payment was declined, try another card")
	case errors.Is(err, payment.ErrGatewayUnavailable):
		respondError(w, http.StatusServiceUnavailable, "gateway_unavailable", "payment service unavailable, try again")
	case errors.Is(err, checkout.ErrCommitRetryable):
		respondError(w, http.StatusServiceUnavailable, "commit_retry", "payment received, finalizing order failed, try again")
	default:
		respondError(w, http.StatusInternalServerError, "internal", "try again")
	}
}
