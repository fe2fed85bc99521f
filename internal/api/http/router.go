package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shipmarket-backend/internal/security"
	"shipmarket-backend/internal/service"
)

// NewRouter wires the REST surface. Everything under /api/v1 requires a valid
// access token; /healthz and /metrics are open.
func NewRouter(orderSvc service.OrderService, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, Logging)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handler := NewOrderHandler(orderSvc)
	auth := NewAuthMiddleware(tm)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	api.HandleFunc("/orders", handler.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/active", handler.GetActiveOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/available", handler.ListAvailableOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/mine", handler.ListMyOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/partner", handler.ListPartnerOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID:[0-9]+}", handler.GetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID:[0-9]+}", handler.DeleteOrder).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{orderID:[0-9]+}/cancel", handler.CancelOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderID:[0-9]+}/discontinue", handler.DiscontinueOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderID:[0-9]+}/complete", handler.CompleteOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderID:[0-9]+}/offers", handler.SubmitOffer).Methods(http.MethodPost)
	api.HandleFunc("/orders/{orderID:[0-9]+}/offers", handler.ListOrderOffers).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID:[0-9]+}/offers/{offerID:[0-9]+}/accept", handler.AcceptOffer).Methods(http.MethodPost)
	api.HandleFunc("/offers/mine", handler.ListMyOffers).Methods(http.MethodGet)
	api.HandleFunc("/offers/{offerID:[0-9]+}/reject", handler.RejectOffer).Methods(http.MethodPost)
	api.HandleFunc("/offers/{offerID:[0-9]+}", handler.DeleteOffer).Methods(http.MethodDelete)

	return router
}
