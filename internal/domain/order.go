package domain

import "time"

type OrderStatus string

const (
	OrderStatusAwaitingPartnerResponse OrderStatus = "AWAITING_PARTNER_RESPONSE"
	OrderStatusHasOffers               OrderStatus = "HAS_OFFERS"
	OrderStatusAgreed                  OrderStatus = "AGREED"
	OrderStatusCompleted               OrderStatus = "COMPLETED"
	OrderStatusCancelled               OrderStatus = "CANCELLED"
	OrderStatusDiscontinued            OrderStatus = "DISCONTINUED"
)

// IsTerminal reports whether no further lifecycle transition is possible.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusDiscontinued:
		return true
	}
	return false
}

// IsOpenForOffers reports whether partners may still submit offers.
func (s OrderStatus) IsOpenForOffers() bool {
	return s == OrderStatusAwaitingPartnerResponse || s == OrderStatusHasOffers
}

// RentOrder is a renter's request for a vessel rental within a time window
// and port pair. PartnerID, ShipID and TotalPriceCents are only set once an
// offer has been accepted (status AGREED and beyond).
type RentOrder struct {
	ID                int32       `json:"id"`
	RenterID          int32       `json:"renter_id"`
	PartnerID         *int32      `json:"partner_id,omitempty"`
	ShipID            *int32      `json:"ship_id,omitempty"`
	DesiredShipTypeID int32       `json:"desired_ship_type_id"`
	DeparturePortID   int32       `json:"departure_port_id"`
	ArrivalPortID     *int32      `json:"arrival_port_id,omitempty"`
	PassengerCount    int32       `json:"passenger_count"`
	RentalStart       time.Time   `json:"rental_start"`
	RentalEnd         *time.Time  `json:"rental_end,omitempty"`
	TotalPriceCents   *int32      `json:"total_price_cents,omitempty"`
	Status            OrderStatus `json:"status"`
	OrderDate         *time.Time  `json:"order_date,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	CancelledAt       *time.Time  `json:"cancelled_at,omitempty"`
}
