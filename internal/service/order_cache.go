package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shipmarket-backend/internal/cache"
	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/logger"
	"shipmarket-backend/internal/metrics"
)

// FreshnessPolicy picks a TTL by result class: terminal-status results are
// immutable and cached longer than active ones. The TTL is only the staleness
// cap for entries the invalidation cascade cannot reach; coherence for
// derivable keys is enforced at write time.
type FreshnessPolicy struct {
	ActiveTTL   time.Duration
	TerminalTTL time.Duration
}

func (p FreshnessPolicy) ForStatus(status domain.OrderStatus) time.Duration {
	if status.IsTerminal() {
		return p.TerminalTTL
	}
	return p.ActiveTTL
}

// cachingOrderService wraps an inner lifecycle engine with read-through
// caching and post-commit invalidation. It satisfies OrderService, so the
// API layer cannot tell it apart from the bare engine. Cache failures are
// logged and bypassed; the cache is never a correctness dependency.
type cachingOrderService struct {
	inner  OrderService
	cache  cache.Cache
	policy FreshnessPolicy
}

func NewCachingOrderService(inner OrderService, c cache.Cache, policy FreshnessPolicy) OrderService {
	return &cachingOrderService{
		inner:  inner,
		cache:  c,
		policy: policy,
	}
}

// lookup reports whether key held a usable entry and decoded it into dest.
func (s *cachingOrderService) lookup(ctx context.Context, key string, dest interface{}) bool {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Cache read failed, falling through to engine", "key", key, "error", err)
		}
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("Dropping corrupt cache entry", "key", key, "error", err)
		if rerr := s.cache.Remove(ctx, key); rerr != nil {
			logger.Warn("Cache remove failed", "key", key, "error", rerr)
		}
		metrics.CacheMisses.Inc()
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

func (s *cachingOrderService) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

// invalidate clears the cascade for a completed mutation. Failures are
// logged, never surfaced: a missed invalidation only produces staleness
// bounded by the entry's TTL.
func (s *cachingOrderService) invalidate(ctx context.Context, keys []string, prefixes []string) {
	for _, key := range keys {
		if err := s.cache.Remove(ctx, key); err != nil {
			logger.Warn("Cache invalidation failed", "key", key, "error", err)
		}
	}
	for _, prefix := range prefixes {
		if err := s.cache.RemoveByPrefix(ctx, prefix); err != nil {
			logger.Warn("Cache prefix invalidation failed", "prefix", prefix, "error", err)
		}
	}
}

// Reads.

func (s *cachingOrderService) GetOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	key := cache.OrderKey(orderID)
	var cached domain.RentOrder
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	order, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, order, s.policy.ForStatus(order.Status))
	return order, nil
}

func (s *cachingOrderService) GetActiveOrderForUser(ctx context.Context, userID int32) (*domain.RentOrder, error) {
	key := cache.UserActiveOrderKey(userID)
	var cached domain.RentOrder
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	order, err := s.inner.GetActiveOrderForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, order, s.policy.ActiveTTL)
	return order, nil
}

func (s *cachingOrderService) GetOrdersForUserByStatus(ctx context.Context, userID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	key := cache.UserOrdersKey(userID, string(status))
	var cached []domain.RentOrder
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	orders, err := s.inner.GetOrdersForUserByStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, orders, s.policy.ForStatus(status))
	return orders, nil
}

func (s *cachingOrderService) GetOrdersForPartnerByStatus(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	key := cache.PartnerOrdersKey(partnerID, string(status))
	var cached []domain.RentOrder
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	orders, err := s.inner.GetOrdersForPartnerByStatus(ctx, partnerID, status)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, orders, s.policy.ForStatus(status))
	return orders, nil
}

func (s *cachingOrderService) GetAvailableOrdersForPartner(ctx context.Context, partnerID int32) ([]domain.RentOrder, error) {
	key := cache.AvailableOrdersKey(partnerID)
	var cached []domain.RentOrder
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	orders, err := s.inner.GetAvailableOrdersForPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, orders, s.policy.ActiveTTL)
	return orders, nil
}

func (s *cachingOrderService) GetOffersByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error) {
	key := cache.OffersByOrderKey(orderID)
	var cached []domain.Offer
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	offers, err := s.inner.GetOffersByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, offers, s.policy.ActiveTTL)
	return offers, nil
}

func (s *cachingOrderService) GetOffersByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error) {
	key := cache.OffersByPartnerKey(partnerID)
	var cached []domain.Offer
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	offers, err := s.inner.GetOffersByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, offers, s.policy.ActiveTTL)
	return offers, nil
}

func (s *cachingOrderService) GetOffersForUser(ctx context.Context, userID int32) ([]domain.Offer, error) {
	key := cache.OffersByUserKey(userID)
	var cached []domain.Offer
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	offers, err := s.inner.GetOffersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, offers, s.policy.ActiveTTL)
	return offers, nil
}

// Writes. Invalidation runs after the inner mutation committed, so a read
// racing a write either sees the old entry before the commit or misses and
// reloads fresh state after it.

func (s *cachingOrderService) CreateOrder(ctx context.Context, renterID int32, spec CreateOrderSpec) (*domain.RentOrder, error) {
	order, err := s.inner.CreateOrder(ctx, renterID, spec)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx,
		[]string{cache.UserActiveOrderKey(renterID)},
		[]string{cache.UserOrdersPrefix(renterID), cache.AvailableOrdersPrefix()},
	)
	return order, nil
}

func (s *cachingOrderService) SubmitOffer(ctx context.Context, partnerID int32, spec SubmitOfferSpec) (*domain.Offer, error) {
	offer, err := s.inner.SubmitOffer(ctx, partnerID, spec)
	if err != nil {
		return nil, err
	}
	// The renter's id is not among the arguments, so the per-user offer
	// list cannot be targeted precisely; the whole family goes.
	s.invalidate(ctx,
		[]string{
			cache.OrderKey(spec.RentOrderID),
			cache.OffersByOrderKey(spec.RentOrderID),
			cache.OffersByPartnerKey(partnerID),
		},
		[]string{cache.OffersByUserPrefix(), cache.AvailableOrdersPrefix(), cache.UserActiveOrderPrefix()},
	)
	return offer, nil
}

func (s *cachingOrderService) AcceptOffer(ctx context.Context, orderID, offerID int32) (*domain.RentOrder, error) {
	order, err := s.inner.AcceptOffer(ctx, orderID, offerID)
	if err != nil {
		return nil, err
	}
	keys := []string{
		cache.OrderKey(orderID),
		cache.OffersByOrderKey(orderID),
		cache.OfferKey(offerID),
		cache.UserActiveOrderKey(order.RenterID),
	}
	prefixes := []string{
		cache.UserOrdersPrefix(order.RenterID),
		cache.AvailableOrdersPrefix(),
		cache.OffersByUserPrefix(),
		// Sibling offers of arbitrary partners were rejected alongside.
		cache.OffersByPartnerPrefix(),
	}
	if order.PartnerID != nil {
		prefixes = append(prefixes, cache.PartnerOrdersPrefix(*order.PartnerID))
	}
	s.invalidate(ctx, keys, prefixes)
	return order, nil
}

func (s *cachingOrderService) RejectOffer(ctx context.Context, offerID int32) (*domain.Offer, error) {
	offer, err := s.inner.RejectOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx,
		[]string{
			cache.OfferKey(offerID),
			cache.OffersByOrderKey(offer.RentOrderID),
			cache.OffersByPartnerKey(offer.PartnerID),
		},
		[]string{cache.OffersByUserPrefix()},
	)
	return offer, nil
}

func (s *cachingOrderService) invalidateTerminated(ctx context.Context, order *domain.RentOrder) {
	keys := []string{
		cache.OrderKey(order.ID),
		cache.OffersByOrderKey(order.ID),
		cache.UserActiveOrderKey(order.RenterID),
	}
	prefixes := []string{
		cache.UserOrdersPrefix(order.RenterID),
		cache.AvailableOrdersPrefix(),
		cache.OffersByUserPrefix(),
		cache.OffersByPartnerPrefix(),
	}
	if order.PartnerID != nil {
		prefixes = append(prefixes, cache.PartnerOrdersPrefix(*order.PartnerID))
	}
	s.invalidate(ctx, keys, prefixes)
}

func (s *cachingOrderService) CancelOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	order, err := s.inner.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.invalidateTerminated(ctx, order)
	return order, nil
}

func (s *cachingOrderService) DiscontinueOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	order, err := s.inner.DiscontinueOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.invalidateTerminated(ctx, order)
	return order, nil
}

func (s *cachingOrderService) CompleteOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	order, err := s.inner.CompleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	keys := []string{
		cache.OrderKey(orderID),
		cache.UserActiveOrderKey(order.RenterID),
	}
	prefixes := []string{cache.UserOrdersPrefix(order.RenterID)}
	if order.PartnerID != nil {
		prefixes = append(prefixes, cache.PartnerOrdersPrefix(*order.PartnerID))
	}
	s.invalidate(ctx, keys, prefixes)
	return order, nil
}

func (s *cachingOrderService) DeleteOrder(ctx context.Context, orderID int32) error {
	if err := s.inner.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	// Administrative path with only the order id at hand: sweep every
	// family the delete could have staled.
	s.invalidate(ctx,
		[]string{cache.OrderKey(orderID), cache.OffersByOrderKey(orderID)},
		[]string{
			cache.AllUserOrdersPrefix(),
			cache.AllPartnerOrdersPrefix(),
			cache.AvailableOrdersPrefix(),
			cache.OffersByPartnerPrefix(),
			cache.OffersByUserPrefix(),
			cache.UserActiveOrderPrefix(),
		},
	)
	return nil
}

func (s *cachingOrderService) DeleteOffer(ctx context.Context, offerID int32) error {
	if err := s.inner.DeleteOffer(ctx, offerID); err != nil {
		return err
	}
	s.invalidate(ctx,
		[]string{cache.OfferKey(offerID)},
		[]string{
			cache.OffersByOrderPrefix(),
			cache.OffersByPartnerPrefix(),
			cache.OffersByUserPrefix(),
		},
	)
	return nil
}
