package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/domain"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/service/booking"
)

type bookingService interface {
	ScheduleConfig(ctx context.Context, providerID string) (domain.ScheduleConfig, error)
	SetScheduleConfig(ctx context.Context, in booking.SetScheduleInput) (domain.ScheduleConfig, error)
	SetClosure(ctx context.Context, in booking.ClosureInput) error
	ListSlots(ctx context.Context, providerID, date string) ([]domain.Slot, error)
	ListBookedTimes(ctx context.Context, providerID, date string) ([]domain.TimeOfDay, error)
	CreateBooking(ctx context.Context, in booking.CreateBookingInput) (domain.Booking, error)
	CancelBooking(ctx context.Context, actorID string, bookingID uuid.UUID) error
	ListFutureBookings(ctx context.Context, requesterID string) ([]domain.Booking, error)
	ListBookingHistory(ctx context.Context, requesterID string) ([]booking.HistoryEntry, error)
	NextBooking(ctx context.Context, requesterID string) (domain.Booking, error)
}

type BookingServer struct {
	svc      bookingService
	log      *slog.Logger
	validate *validator.Validate
}

func NewBookingServer(svc bookingService, log *slog.Logger) *BookingServer {
	if log == nil {
		log = slog.Default()
	}
	return &BookingServer{
		svc:      svc,
		log:      log.With(slog.String("component", "httpapi.bookings")),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type scheduleResponse struct {
	ProviderID      string           `json:"provider_id"`
	Start           domain.TimeOfDay `json:"start"`
	End             domain.TimeOfDay `json:"end"`
	IntervalMinutes int              `json:"interval_minutes"`
}

func toScheduleResponse(cfg domain.ScheduleConfig) scheduleResponse {
	return scheduleResponse{
		ProviderID:      cfg.ProviderID,
		Start:           cfg.Start,
		End:             cfg.End,
		IntervalMinutes: cfg.IntervalMinutes,
	}
}

func (s *BookingServer) GetSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "GetSchedule"))

	cfg, err := s.svc.ScheduleConfig(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(cfg))
}

type setScheduleRequest struct {
	Start           string `json:"start" validate:"required"`
	End             string `json:"end" validate:"required"`
	IntervalMinutes int    `json:"interval_minutes" validate:"required,gt=0"`
}

func (s *BookingServer) PutSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "PutSchedule"))

	var req setScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	providerID := ps.ByName("id")
	cfg, err := s.svc.SetScheduleConfig(r.Context(), booking.SetScheduleInput{
		ProviderID:      providerID,
		Start:           req.Start,
		End:             req.End,
		IntervalMinutes: req.IntervalMinutes,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("schedule config set",
		slog.String("provider_id", providerID),
		slog.String("start", cfg.Start.String()),
		slog.String("end", cfg.End.String()),
		slog.Int("interval_minutes", cfg.IntervalMinutes),
	)
	writeJSON(w, http.StatusOK, toScheduleResponse(cfg))
}

type closureRequest struct {
	Date   string `json:"date" validate:"required"`
	Time   string `json:"time" validate:"required"`
	Closed *bool  `json:"closed" validate:"required"`
}

func (s *BookingServer) PostClosure(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "PostClosure"))

	var req closureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	providerID := ps.ByName("id")
	err := s.svc.SetClosure(r.Context(), booking.ClosureInput{
		ProviderID: providerID,
		Date:       req.Date,
		Time:       req.Time,
		Closed:     *req.Closed,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("closure set",
		slog.String("provider_id", providerID),
		slog.String("date", req.Date),
		slog.String("time", req.Time),
		slog.Bool("closed", *req.Closed),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (s *BookingServer) GetSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "GetSlots"))

	slots, err := s.svc.ListSlots(r.Context(), ps.ByName("id"), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *BookingServer) GetBookedTimes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "GetBookedTimes"))

	times, err := s.svc.ListBookedTimes(r.Context(), ps.ByName("id"), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	if times == nil {
		times = []domain.TimeOfDay{}
	}
	writeJSON(w, http.StatusOK, times)
}

type createBookingRequest struct {
	ProviderID  string `json:"provider_id" validate:"required"`
	RequesterID string `json:"requester_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
}

type bookingResponse struct {
	BookingID   string           `json:"booking_id"`
	ProviderID  string           `json:"provider_id"`
	RequesterID string           `json:"requester_id"`
	Date        domain.Date      `json:"date"`
	Time        domain.TimeOfDay `json:"time"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:   b.ID.String(),
		ProviderID:  b.ProviderID,
		RequesterID: b.RequesterID,
		Date:        b.Date,
		Time:        b.Time,
	}
}

func (s *BookingServer) PostBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := s.log.With(slog.String("op", "PostBooking"))

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	b, err := s.svc.CreateBooking(r.Context(), booking.CreateBookingInput{
		ProviderID:  req.ProviderID,
		RequesterID: req.RequesterID,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("provider_id", b.ProviderID),
		slog.String("requester_id", b.RequesterID),
		slog.String("date", b.Date.String()),
		slog.String("time", b.Time.String()),
	)
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (s *BookingServer) DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "DeleteBooking"))

	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeBadRequest(w, "booking id must be a UUID")
		return
	}
	actorID := r.Header.Get("X-Actor-ID")

	if err := s.svc.CancelBooking(r.Context(), actorID, id); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("booking cancelled", slog.String("booking_id", id.String()), slog.String("actor_id", actorID))
	w.WriteHeader(http.StatusNoContent)
}

func (s *BookingServer) GetFutureBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "GetFutureBookings"))

	rows, err := s.svc.ListFutureBookings(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	out := make([]bookingResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

type historyEntryResponse struct {
	bookingResponse
	Status string `json:"status"`
}

func (s *BookingServer) GetBookingHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "GetBookingHistory"))

	entries, err := s.svc.ListBookingHistory(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		status := "future"
		if e.Past {
			status = "past"
		}
		out = append(out, historyEntryResponse{
			bookingResponse: toBookingResponse(e.Booking),
			Status:          status,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *BookingServer) GetNextBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := s.log.With(slog.String("op", "GetNextBooking"))

	b, err := s.svc.NextBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}
