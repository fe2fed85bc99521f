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

const offerColumns = `id, rent_order_id, partner_id, ship_id, offered_price_cents, status, created_at, responded_at`

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

func scanOffer(s rowScanner) (*domain.Offer, error) {
	o := &domain.Offer{}
	err := s.Scan(&o.ID, &o.RentOrderID, &o.PartnerID, &o.ShipID, &o.OfferedPriceCents, &o.Status, &o.CreatedAt, &o.RespondedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (rent_order_id, partner_id, ship_id, offered_price_cents, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, o.RentOrderID, o.PartnerID, o.ShipID, o.OfferedPriceCents, o.Status, time.Now()).Scan(&o.ID, &o.CreatedAt)
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: offer %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *offerRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return err
}

func (r *offerRepository) DeleteByOrder(ctx context.Context, orderID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE rent_order_id = $1`, orderID)
	return err
}

func (r *offerRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

func (r *offerRepository) ListByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error) {
	return r.list(ctx, `SELECT `+offerColumns+` FROM offers WHERE rent_order_id = $1 ORDER BY created_at DESC`, orderID)
}

func (r *offerRepository) ListByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error) {
	return r.list(ctx, `SELECT `+offerColumns+` FROM offers WHERE partner_id = $1 ORDER BY created_at DESC`, partnerID)
}

func (r *offerRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Offer, error) {
	query := `SELECT o.id, o.rent_order_id, o.partner_id, o.ship_id, o.offered_price_cents, o.status, o.created_at, o.responded_at
	          FROM offers o JOIN rent_orders ro ON ro.id = o.rent_order_id
	          WHERE ro.renter_id = $1 ORDER BY o.created_at DESC`
	return r.list(ctx, query, renterID)
}

func (r *offerRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Offer, error) {
	return r.list(ctx, `SELECT `+offerColumns+` FROM offers WHERE status = $1 AND created_at < $2`, domain.OfferStatusPending, cutoff)
}

func (r *offerRepository) Reject(ctx context.Context, id int32, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE offers SET status = $1, responded_at = $2 WHERE id = $3 AND status = $4`,
		domain.OfferStatusRejected, at, id, domain.OfferStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
