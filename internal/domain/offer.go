package domain

import "time"

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
)

// Offer is a partner's proposal (specific ship + price) against one rent
// order. For a given order at most one offer is ever ACCEPTED; accepting one
// rejects every other pending sibling in the same transaction.
type Offer struct {
	ID                int32       `json:"id"`
	RentOrderID       int32       `json:"rent_order_id"`
	PartnerID         int32       `json:"partner_id"`
	ShipID            int32       `json:"ship_id"`
	OfferedPriceCents int32       `json:"offered_price_cents"`
	Status            OfferStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	RespondedAt       *time.Time  `json:"responded_at,omitempty"`
}
