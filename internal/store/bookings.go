package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/domain"
)

// ScheduleRepository holds each provider's working-hours config and the set
// of administratively closed slots.
type ScheduleRepository interface {
	GetConfig(ctx context.Context, providerID string) (domain.ScheduleConfig, error)
	UpsertConfig(ctx context.Context, cfg domain.ScheduleConfig) (domain.ScheduleConfig, error)

	// SetClosed is idempotent in both directions: closing a closed slot and
	// opening a never-closed slot are no-ops.
	SetClosed(ctx context.Context, providerID string, date domain.Date, t domain.TimeOfDay, closed bool) error
	ListClosedTimes(ctx context.Context, providerID string, date domain.Date) ([]domain.TimeOfDay, error)
}

// BookingRepository owns confirmed bookings. Implementations must enforce
// uniqueness of (provider_id, date, time) at the storage level; the service
// relies on Create surfacing ErrSlotTaken from that constraint rather than
// on any pre-check.
type BookingRepository interface {
	// Create commits the booking unless the slot is closed (ErrSlotClosed)
	// or already booked (ErrSlotTaken). The closed-check and insert are
	// atomic with respect to concurrent writers for the same provider.
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	Get(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// Delete removes the booking if present. Deleting an unknown id is a
	// successful no-op.
	Delete(ctx context.Context, id uuid.UUID) error

	ListTimesForDate(ctx context.Context, providerID string, date domain.Date) ([]domain.TimeOfDay, error)

	// ListForRequesterAfter returns the requester's bookings strictly after
	// (date, t), ascending by (date, time).
	ListForRequesterAfter(ctx context.Context, requesterID string, date domain.Date, t domain.TimeOfDay) ([]domain.Booking, error)

	// ListForRequester returns all of the requester's bookings, descending
	// by (date, time).
	ListForRequester(ctx context.Context, requesterID string) ([]domain.Booking, error)

	// FirstFromDate returns the requester's earliest booking on or after
	// date, or ErrNotFound.
	FirstFromDate(ctx context.Context, requesterID string, date domain.Date) (domain.Booking, error)
}
