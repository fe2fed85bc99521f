package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/logger"
	"shipmarket-backend/internal/service"
)

// OrderHandler exposes the rent-order lifecycle over REST.
type OrderHandler struct {
	orderSvc service.OrderService
}

func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: RequestIDFromContext(r.Context())})
}

// writeDomainError maps the failure taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidationFailed):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidStateTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConcurrentConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		logger.Error("Request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

type createOrderRequest struct {
	DesiredShipTypeID int32      `json:"desired_ship_type_id"`
	DeparturePortID   int32      `json:"departure_port_id"`
	ArrivalPortID     *int32     `json:"arrival_port_id,omitempty"`
	PassengerCount    int32      `json:"passenger_count"`
	RentalStart       time.Time  `json:"rental_start"`
	RentalEnd         *time.Time `json:"rental_end,omitempty"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	order, err := h.orderSvc.CreateOrder(r.Context(), UserIDFromContext(r.Context()), service.CreateOrderSpec{
		DesiredShipTypeID: req.DesiredShipTypeID,
		DeparturePortID:   req.DeparturePortID,
		ArrivalPortID:     req.ArrivalPortID,
		PassengerCount:    req.PassengerCount,
		RentalStart:       req.RentalStart,
		RentalEnd:         req.RentalEnd,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.orderSvc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetActiveOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.GetActiveOrderForUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.orderSvc.GetOrdersForUserByStatus(r.Context(), UserIDFromContext(r.Context()), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListPartnerOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.orderSvc.GetOrdersForPartnerByStatus(r.Context(), UserIDFromContext(r.Context()), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListAvailableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.GetAvailableOrdersForPartner(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type submitOfferRequest struct {
	ShipID            int32 `json:"ship_id"`
	OfferedPriceCents int32 `json:"offered_price_cents"`
}

func (h *OrderHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	var req submitOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	offer, err := h.orderSvc.SubmitOffer(r.Context(), UserIDFromContext(r.Context()), service.SubmitOfferSpec{
		RentOrderID:       orderID,
		ShipID:            req.ShipID,
		OfferedPriceCents: req.OfferedPriceCents,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *OrderHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	offerID, err := pathID(r, "offerID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid offer id")
		return
	}
	order, err := h.orderSvc.AcceptOffer(r.Context(), orderID, offerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := pathID(r, "offerID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid offer id")
		return
	}
	offer, err := h.orderSvc.RejectOffer(r.Context(), offerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.orderSvc.CancelOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DiscontinueOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.orderSvc.DiscontinueOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.orderSvc.CompleteOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := h.orderSvc.DeleteOrder(r.Context(), orderID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := pathID(r, "offerID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid offer id")
		return
	}
	if err := h.orderSvc.DeleteOffer(r.Context(), offerID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) ListOrderOffers(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	offers, err := h.orderSvc.GetOffersByOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *OrderHandler) ListMyOffers(w http.ResponseWriter, r *http.Request) {
	// Partners see the offers they made, renters the offers made to them.
	ctx := r.Context()
	var offers []domain.Offer
	var err error
	if IsPartnerFromContext(ctx) {
		offers, err = h.orderSvc.GetOffersByPartner(ctx, UserIDFromContext(ctx))
	} else {
		offers, err = h.orderSvc.GetOffersForUser(ctx, UserIDFromContext(ctx))
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}
