package domain

import "time"

// ShipAvailabilityRecord is the authoritative record of a ship's booked time
// interval. Intervals are half-open [Start, End); a nil End means the booking
// is open-ended. For one ship no two records may overlap.
type ShipAvailabilityRecord struct {
	ID              int32      `json:"id"`
	ShipID          int32      `json:"ship_id"`
	RentOrderID     int32      `json:"rent_order_id"`
	DeparturePortID *int32     `json:"departure_port_id,omitempty"`
	ArrivalPortID   *int32     `json:"arrival_port_id,omitempty"`
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
}

// Overlaps reports whether the record's interval intersects [start, end),
// treating a nil end on either side as unbounded.
func (r *ShipAvailabilityRecord) Overlaps(start time.Time, end *time.Time) bool {
	if r.End != nil && !r.End.After(start) {
		return false
	}
	if end != nil && !end.After(r.Start) {
		return false
	}
	return true
}
