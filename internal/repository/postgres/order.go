package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

const orderColumns = `id, renter_id, partner_id, ship_id, desired_ship_type_id, departure_port_id, arrival_port_id, passenger_count, rental_start, rental_end, total_price_cents, status, order_date, created_at, cancelled_at`

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s rowScanner) (*domain.RentOrder, error) {
	o := &domain.RentOrder{}
	err := s.Scan(&o.ID, &o.RenterID, &o.PartnerID, &o.ShipID, &o.DesiredShipTypeID, &o.DeparturePortID, &o.ArrivalPortID, &o.PassengerCount, &o.RentalStart, &o.RentalEnd, &o.TotalPriceCents, &o.Status, &o.OrderDate, &o.CreatedAt, &o.CancelledAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.RentOrder) error {
	query := `INSERT INTO rent_orders (renter_id, desired_ship_type_id, departure_port_id, arrival_port_id, passenger_count, rental_start, rental_end, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, o.RenterID, o.DesiredShipTypeID, o.DeparturePortID, o.ArrivalPortID, o.PassengerCount, o.RentalStart, o.RentalEnd, o.Status, time.Now()).Scan(&o.ID, &o.CreatedAt)
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.RentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rent_orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rent_orders WHERE id = $1`, id)
	return err
}

func (r *orderRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]domain.RentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rent_orders WHERE ` + where + ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.RentOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) ListByRenter(ctx context.Context, renterID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	return r.listWhere(ctx, `renter_id = $1 AND status = $2`, renterID, status)
}

func (r *orderRepository) ListByPartner(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	return r.listWhere(ctx, `partner_id = $1 AND status = $2`, partnerID, status)
}

func (r *orderRepository) ListOpen(ctx context.Context) ([]domain.RentOrder, error) {
	return r.listWhere(ctx, `status IN ($1, $2)`, domain.OrderStatusAwaitingPartnerResponse, domain.OrderStatusHasOffers)
}

func (r *orderRepository) GetActiveByRenter(ctx context.Context, renterID int32) (*domain.RentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM rent_orders
	          WHERE renter_id = $1 AND status NOT IN ($2, $3, $4)
	          ORDER BY created_at DESC LIMIT 1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, renterID, domain.OrderStatusCompleted, domain.OrderStatusCancelled, domain.OrderStatusDiscontinued))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no active order for user %d", domain.ErrNotFound, renterID)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentOrder, error) {
	return r.listWhere(ctx, `status IN ($1, $2) AND created_at < $3`, domain.OrderStatusAwaitingPartnerResponse, domain.OrderStatusHasOffers, cutoff)
}

func (r *orderRepository) UpdateStatusIf(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE rent_orders SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AcceptOffer runs the whole acceptance as one transaction. The conditional
// order update goes first: a caller that lost the accept race fails there and
// never touches the offers.
func (r *orderRepository) AcceptOffer(ctx context.Context, p repository.AcceptOfferParams) (*domain.RentOrder, *domain.Offer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	orderQuery := `UPDATE rent_orders
	               SET partner_id = $1, ship_id = $2, total_price_cents = $3, status = $4, order_date = $5
	               WHERE id = $6 AND status = $7
	               RETURNING ` + orderColumns
	order, err := scanOrder(tx.QueryRowContext(ctx, orderQuery, p.PartnerID, p.ShipID, p.TotalPriceCents, domain.OrderStatusAgreed, p.At, p.OrderID, domain.OrderStatusHasOffers))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: order %d was resolved by a concurrent accept", domain.ErrConcurrentConflict, p.OrderID)
	}
	if err != nil {
		return nil, nil, err
	}

	offerQuery := `UPDATE offers SET status = $1, responded_at = $2
	               WHERE id = $3 AND rent_order_id = $4 AND status = $5
	               RETURNING id, rent_order_id, partner_id, ship_id, offered_price_cents, status, created_at, responded_at`
	offer := &domain.Offer{}
	err = tx.QueryRowContext(ctx, offerQuery, domain.OfferStatusAccepted, p.At, p.OfferID, p.OrderID, domain.OfferStatusPending).
		Scan(&offer.ID, &offer.RentOrderID, &offer.PartnerID, &offer.ShipID, &offer.OfferedPriceCents, &offer.Status, &offer.CreatedAt, &offer.RespondedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: offer %d is no longer pending", domain.ErrInvalidStateTransition, p.OfferID)
	}
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE offers SET status = $1, responded_at = $2 WHERE rent_order_id = $3 AND status = $4 AND id <> $5`,
		domain.OfferStatusRejected, p.At, p.OrderID, domain.OfferStatusPending, p.OfferID)
	if err != nil {
		return nil, nil, err
	}

	if p.Booking != nil {
		// Serialize per-ship bookings on the ship row so the overlap check
		// and the insert form one critical section across transactions.
		var shipID int32
		if err := tx.QueryRowContext(ctx, `SELECT id FROM ships WHERE id = $1 FOR UPDATE`, p.Booking.ShipID).Scan(&shipID); err != nil {
			return nil, nil, err
		}
		var overlapping int
		overlapQuery := `SELECT COUNT(*) FROM ship_availability
		                 WHERE ship_id = $1 AND (end_date IS NULL OR end_date > $2) AND ($3::timestamptz IS NULL OR start_date < $3)`
		if err := tx.QueryRowContext(ctx, overlapQuery, p.Booking.ShipID, p.Booking.Start, p.Booking.End).Scan(&overlapping); err != nil {
			return nil, nil, err
		}
		if overlapping > 0 {
			return nil, nil, fmt.Errorf("%w: ship %d is already booked for an overlapping window", domain.ErrValidationFailed, p.Booking.ShipID)
		}

		bookingQuery := `INSERT INTO ship_availability (ship_id, rent_order_id, departure_port_id, arrival_port_id, start_date, end_date)
		                 VALUES ($1, $2, $3, $4, $5, $6)`
		_, err = tx.ExecContext(ctx, bookingQuery, p.Booking.ShipID, p.Booking.RentOrderID, p.Booking.DeparturePortID, p.Booking.ArrivalPortID, p.Booking.Start, p.Booking.End)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return order, offer, nil
}

func (r *orderRepository) Terminate(ctx context.Context, id int32, to domain.OrderStatus, at time.Time) (*domain.RentOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `UPDATE rent_orders SET status = $1, cancelled_at = $2
	          WHERE id = $3 AND status NOT IN ($4, $5, $6)
	          RETURNING ` + orderColumns
	order, err := scanOrder(tx.QueryRowContext(ctx, query, to, at, id, domain.OrderStatusCompleted, domain.OrderStatusCancelled, domain.OrderStatusDiscontinued))
	if errors.Is(err, sql.ErrNoRows) {
		var status domain.OrderStatus
		if err := tx.QueryRowContext(ctx, `SELECT status FROM rent_orders WHERE id = $1`, id).Scan(&status); errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
		} else if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: order %d is already %s", domain.ErrInvalidStateTransition, id, status)
	}
	if err != nil {
		return nil, err
	}

	// Pending offers can no longer be accepted once the order is terminal.
	_, err = tx.ExecContext(ctx, `UPDATE offers SET status = $1, responded_at = $2 WHERE rent_order_id = $3 AND status = $4`,
		domain.OfferStatusRejected, at, id, domain.OfferStatusPending)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM ship_availability WHERE rent_order_id = $1`, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}
