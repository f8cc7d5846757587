package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/domain"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ErrNotAllowed is returned when the cancelling actor is neither the
// requester nor the provider named on the booking.
var ErrNotAllowed = errors.New("not allowed")

type Service struct {
	schedules store.ScheduleRepository
	bookings  store.BookingRepository
	now       func() time.Time
}

func NewService(schedules store.ScheduleRepository, bookings store.BookingRepository) *Service {
	return &Service{
		schedules: schedules,
		bookings:  bookings,
		now:       time.Now,
	}
}

func (s *Service) ScheduleConfig(ctx context.Context, providerID string) (domain.ScheduleConfig, error) {
	if providerID == "" {
		return domain.ScheduleConfig{}, validationError("provider_id is required")
	}
	return s.schedules.GetConfig(ctx, providerID)
}

type SetScheduleInput struct {
	ProviderID      string
	Start           string
	End             string
	IntervalMinutes int
}

func (s *Service) SetScheduleConfig(ctx context.Context, in SetScheduleInput) (domain.ScheduleConfig, error) {
	if in.ProviderID == "" {
		return domain.ScheduleConfig{}, validationError("provider_id is required")
	}
	start, err := domain.ParseTimeOfDay(in.Start)
	if err != nil {
		return domain.ScheduleConfig{}, validationError(err.Error())
	}
	end, err := domain.ParseTimeOfDay(in.End)
	if err != nil {
		return domain.ScheduleConfig{}, validationError(err.Error())
	}

	cfg := domain.ScheduleConfig{
		ProviderID:      in.ProviderID,
		Start:           start,
		End:             end,
		IntervalMinutes: in.IntervalMinutes,
	}
	if err := cfg.Validate(); err != nil {
		return domain.ScheduleConfig{}, validationError(err.Error())
	}

	return s.schedules.UpsertConfig(ctx, cfg)
}

type ClosureInput struct {
	ProviderID string
	Date       string
	Time       string
	Closed     bool
}

// SetClosure toggles a slot's administrative closure. Closing a slot that
// already carries a booking is permitted: the closure stops new offers, it
// does not cancel the standing commitment.
func (s *Service) SetClosure(ctx context.Context, in ClosureInput) error {
	if in.ProviderID == "" {
		return validationError("provider_id is required")
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return validationError(err.Error())
	}
	t, err := domain.ParseTimeOfDay(in.Time)
	if err != nil {
		return validationError(err.Error())
	}
	return s.schedules.SetClosed(ctx, in.ProviderID, date, t, in.Closed)
}

// ListSlots returns the full availability view for one provider and date.
// A provider without a schedule config has no grid; that surfaces as the
// store's not-found.
func (s *Service) ListSlots(ctx context.Context, providerID, dateStr string) ([]domain.Slot, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, validationError(err.Error())
	}

	cfg, err := s.schedules.GetConfig(ctx, providerID)
	if err != nil {
		return nil, err
	}

	closedTimes, err := s.schedules.ListClosedTimes(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	bookedTimes, err := s.bookings.ListTimesForDate(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	return domain.ComputeSlots(cfg, domain.TimeSet(closedTimes), domain.TimeSet(bookedTimes)), nil
}

func (s *Service) ListBookedTimes(ctx context.Context, providerID, dateStr string) ([]domain.TimeOfDay, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, validationError(err.Error())
	}
	return s.bookings.ListTimesForDate(ctx, providerID, date)
}

type CreateBookingInput struct {
	ProviderID  string
	RequesterID string
	Date        string
	Time        string
}

// CreateBooking commits a booking for the requested slot. The repository's
// closed-check and unique constraint decide conflicts; the service adds no
// pre-check of its own, so there is no window between check and insert
// beyond the one the store already serializes.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.ProviderID == "" {
		return domain.Booking{}, validationError("provider_id is required")
	}
	if in.RequesterID == "" {
		return domain.Booking{}, validationError("requester_id is required")
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return domain.Booking{}, validationError(err.Error())
	}
	t, err := domain.ParseTimeOfDay(in.Time)
	if err != nil {
		return domain.Booking{}, validationError(err.Error())
	}

	return s.bookings.Create(ctx, domain.Booking{
		ProviderID:  in.ProviderID,
		RequesterID: in.RequesterID,
		Date:        date,
		Time:        t,
	})
}

// CancelBooking deletes the booking. Cancelling an unknown id is a success;
// cancelling somebody else's booking is not: the actor must be the booking's
// requester or its provider.
func (s *Service) CancelBooking(ctx context.Context, actorID string, bookingID uuid.UUID) error {
	if actorID == "" {
		return validationError("actor_id is required")
	}
	if bookingID == uuid.Nil {
		return validationError("booking_id is required")
	}

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if actorID != booking.RequesterID && actorID != booking.ProviderID {
		return ErrNotAllowed
	}

	return s.bookings.Delete(ctx, bookingID)
}

func (s *Service) ListFutureBookings(ctx context.Context, requesterID string) ([]domain.Booking, error) {
	if requesterID == "" {
		return nil, validationError("requester_id is required")
	}
	now := s.now()
	return s.bookings.ListForRequesterAfter(ctx, requesterID, domain.DateOf(now), timeOfDayOf(now))
}

// HistoryEntry annotates a booking as past or future relative to the read
// instant. The annotation is recomputed on every call, never stored.
type HistoryEntry struct {
	Booking domain.Booking
	Past    bool
}

func (s *Service) ListBookingHistory(ctx context.Context, requesterID string) ([]HistoryEntry, error) {
	if requesterID == "" {
		return nil, validationError("requester_id is required")
	}
	rows, err := s.bookings.ListForRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]HistoryEntry, 0, len(rows))
	for _, b := range rows {
		entries = append(entries, HistoryEntry{
			Booking: b,
			Past:    b.Date.At(b.Time).Before(now),
		})
	}
	return entries, nil
}

// NextBooking returns the requester's earliest booking with date on or after
// today. The comparison is by date only, so a booking earlier today still
// counts, matching the established behavior of the surrounding product.
func (s *Service) NextBooking(ctx context.Context, requesterID string) (domain.Booking, error) {
	if requesterID == "" {
		return domain.Booking{}, validationError("requester_id is required")
	}
	return s.bookings.FirstFromDate(ctx, requesterID, domain.DateOf(s.now()))
}

func timeOfDayOf(t time.Time) domain.TimeOfDay {
	return domain.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}
