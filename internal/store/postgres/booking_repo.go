package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/domain"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create runs the closed-check and insert in one transaction holding the
// provider's advisory lock, so concurrent writers for the same provider are
// serialized. The unique constraint on (provider_id, slot_date, slot_time)
// remains the final arbiter either way; a violation of it surfaces as
// ErrSlotTaken.
func (r *BookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	var out domain.Booking
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderCalendar(ctx, tx, booking.ProviderID); err != nil {
			return err
		}

		closed, err := tx.NewSelect().
			Model((*domain.ClosedSlot)(nil)).
			Where("provider_id = ?", booking.ProviderID).
			Where("slot_date = ?", booking.Date).
			Where("slot_time = ?", booking.Time).
			Exists(ctx)
		if err != nil {
			return err
		}
		if closed {
			return store.ErrSlotClosed
		}

		m := booking
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == BookingSlotConstraint {
				return store.ErrSlotTaken
			}
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var row domain.Booking
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return row, nil
}

// Delete is unconditional: a missing id is a successful no-op.
func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *BookingRepo) ListTimesForDate(ctx context.Context, providerID string, date domain.Date) ([]domain.TimeOfDay, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Column("slot_time").
		Where("provider_id = ?", providerID).
		Where("slot_date = ?", date).
		OrderExpr("slot_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	times := make([]domain.TimeOfDay, 0, len(rows))
	for _, b := range rows {
		times = append(times, b.Time)
	}
	return times, nil
}

func (r *BookingRepo) ListForRequesterAfter(ctx context.Context, requesterID string, date domain.Date, t domain.TimeOfDay) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("requester_id = ?", requesterID).
		Where("(slot_date > ? OR (slot_date = ? AND slot_time > ?))", date, date, t).
		OrderExpr("slot_date ASC, slot_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListForRequester(ctx context.Context, requesterID string) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("requester_id = ?", requesterID).
		OrderExpr("slot_date DESC, slot_time DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) FirstFromDate(ctx context.Context, requesterID string, date domain.Date) (domain.Booking, error) {
	var row domain.Booking
	err := r.db.NewSelect().
		Model(&row).
		Where("requester_id = ?", requesterID).
		Where("slot_date >= ?", date).
		OrderExpr("slot_date ASC, slot_time ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return row, nil
}

func lockProviderCalendar(ctx context.Context, tx bun.Tx, providerID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", providerID).Exec(ctx)
	return err
}
