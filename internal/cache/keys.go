package cache

import "fmt"

// Cache key schema. The schema is collision-free and must stay stable for
// the life of the engine: invalidation relies on writers and readers deriving
// identical keys from the same ids.
//
// OffersByUserPrefix is the one wildcard family: offers do not carry the
// renter id, so a mutation cannot derive the precise per-user key from its
// arguments and clears the whole family instead.

const (
	orderKeyPrefix           = "order:"
	userOrdersKeyPrefix      = "user-orders:"
	partnerOrdersKeyPrefix   = "partner-orders:"
	availableOrdersKeyPrefix = "available-orders:"
	offerKeyPrefix           = "offer:"
	offersByOrderKeyPrefix   = "offers-by-order:"
	offersByPartnerKeyPrefix = "offers-by-partner:"
	offersByUserKeyPrefix    = "offers-by-user:"
	userActiveOrderKeyPrefix = "user-active-order:"
)

func OrderKey(orderID int32) string { return fmt.Sprintf("%s%d", orderKeyPrefix, orderID) }

func UserOrdersKey(userID int32, status string) string {
	return fmt.Sprintf("%s%d:%s", userOrdersKeyPrefix, userID, status)
}

func UserOrdersPrefix(userID int32) string {
	return fmt.Sprintf("%s%d:", userOrdersKeyPrefix, userID)
}

func PartnerOrdersKey(partnerID int32, status string) string {
	return fmt.Sprintf("%s%d:%s", partnerOrdersKeyPrefix, partnerID, status)
}

func PartnerOrdersPrefix(partnerID int32) string {
	return fmt.Sprintf("%s%d:", partnerOrdersKeyPrefix, partnerID)
}

func AvailableOrdersKey(partnerID int32) string {
	return fmt.Sprintf("%s%d", availableOrdersKeyPrefix, partnerID)
}

// AvailableOrdersPrefix covers every partner's available-order list; a new or
// resolved order changes all of them.
func AvailableOrdersPrefix() string { return availableOrdersKeyPrefix }

// Whole-family prefixes, used when a mutation touches entries whose owning
// ids cannot be derived from its arguments (sibling offers of many partners,
// an order's renter on an id-only call).
func AllUserOrdersPrefix() string { return userOrdersKeyPrefix }

func AllPartnerOrdersPrefix() string { return partnerOrdersKeyPrefix }

func OffersByOrderPrefix() string { return offersByOrderKeyPrefix }

func OffersByPartnerPrefix() string { return offersByPartnerKeyPrefix }

func OfferKey(offerID int32) string { return fmt.Sprintf("%s%d", offerKeyPrefix, offerID) }

func OffersByOrderKey(orderID int32) string {
	return fmt.Sprintf("%s%d", offersByOrderKeyPrefix, orderID)
}

func OffersByPartnerKey(partnerID int32) string {
	return fmt.Sprintf("%s%d", offersByPartnerKeyPrefix, partnerID)
}

func OffersByUserKey(userID int32) string {
	return fmt.Sprintf("%s%d", offersByUserKeyPrefix, userID)
}

func OffersByUserPrefix() string { return offersByUserKeyPrefix }

func UserActiveOrderKey(userID int32) string {
	return fmt.Sprintf("%s%d", userActiveOrderKeyPrefix, userID)
}

func UserActiveOrderPrefix() string { return userActiveOrderKeyPrefix }
