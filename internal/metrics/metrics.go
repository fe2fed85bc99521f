package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipmarket_orders_created_total",
		Help: "Rent orders created.",
	})

	AcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipmarket_offer_accept_conflicts_total",
		Help: "Offer acceptances lost to a concurrent state change.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipmarket_cache_hits_total",
		Help: "Read-through cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipmarket_cache_misses_total",
		Help: "Read-through cache misses, including bypasses on cache errors.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipmarket_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	StaleOrdersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipmarket_stale_orders_expired_total",
		Help: "Orders discontinued by the stale-order job.",
	})

	StaleOffersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipmarket_stale_offers_rejected_total",
		Help: "Offers rejected by the stale-offer job.",
	})
)
