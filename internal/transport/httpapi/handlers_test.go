package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/domain"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/service/booking"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/store"
)

type fakeService struct {
	scheduleConfigFn     func(ctx context.Context, providerID string) (domain.ScheduleConfig, error)
	setScheduleConfigFn  func(ctx context.Context, in booking.SetScheduleInput) (domain.ScheduleConfig, error)
	setClosureFn         func(ctx context.Context, in booking.ClosureInput) error
	listSlotsFn          func(ctx context.Context, providerID, date string) ([]domain.Slot, error)
	listBookedTimesFn    func(ctx context.Context, providerID, date string) ([]domain.TimeOfDay, error)
	createBookingFn      func(ctx context.Context, in booking.CreateBookingInput) (domain.Booking, error)
	cancelBookingFn      func(ctx context.Context, actorID string, bookingID uuid.UUID) error
	listFutureBookingsFn func(ctx context.Context, requesterID string) ([]domain.Booking, error)
	listBookingHistoryFn func(ctx context.Context, requesterID string) ([]booking.HistoryEntry, error)
	nextBookingFn        func(ctx context.Context, requesterID string) (domain.Booking, error)
}

func (f *fakeService) ScheduleConfig(ctx context.Context, providerID string) (domain.ScheduleConfig, error) {
	if f.scheduleConfigFn != nil {
		return f.scheduleConfigFn(ctx, providerID)
	}
	return domain.ScheduleConfig{}, store.ErrNotFound
}

func (f *fakeService) SetScheduleConfig(ctx context.Context, in booking.SetScheduleInput) (domain.ScheduleConfig, error) {
	if f.setScheduleConfigFn != nil {
		return f.setScheduleConfigFn(ctx, in)
	}
	return domain.ScheduleConfig{}, nil
}

func (f *fakeService) SetClosure(ctx context.Context, in booking.ClosureInput) error {
	if f.setClosureFn != nil {
		return f.setClosureFn(ctx, in)
	}
	return nil
}

func (f *fakeService) ListSlots(ctx context.Context, providerID, date string) ([]domain.Slot, error) {
	if f.listSlotsFn != nil {
		return f.listSlotsFn(ctx, providerID, date)
	}
	return nil, nil
}

func (f *fakeService) ListBookedTimes(ctx context.Context, providerID, date string) ([]domain.TimeOfDay, error) {
	if f.listBookedTimesFn != nil {
		return f.listBookedTimesFn(ctx, providerID, date)
	}
	return nil, nil
}

func (f *fakeService) CreateBooking(ctx context.Context, in booking.CreateBookingInput) (domain.Booking, error) {
	if f.createBookingFn != nil {
		return f.createBookingFn(ctx, in)
	}
	return domain.Booking{}, nil
}

func (f *fakeService) CancelBooking(ctx context.Context, actorID string, bookingID uuid.UUID) error {
	if f.cancelBookingFn != nil {
		return f.cancelBookingFn(ctx, actorID, bookingID)
	}
	return nil
}

func (f *fakeService) ListFutureBookings(ctx context.Context, requesterID string) ([]domain.Booking, error) {
	if f.listFutureBookingsFn != nil {
		return f.listFutureBookingsFn(ctx, requesterID)
	}
	return nil, nil
}

func (f *fakeService) ListBookingHistory(ctx context.Context, requesterID string) ([]booking.HistoryEntry, error) {
	if f.listBookingHistoryFn != nil {
		return f.listBookingHistoryFn(ctx, requesterID)
	}
	return nil, nil
}

func (f *fakeService) NextBooking(ctx context.Context, requesterID string) (domain.Booking, error) {
	if f.nextBookingFn != nil {
		return f.nextBookingFn(ctx, requesterID)
	}
	return domain.Booking{}, store.ErrNotFound
}

func newTestRouter(svc *fakeService) http.Handler {
	return NewRouter(NewBookingServer(svc, nil), 5*time.Second)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	parsed, err := domain.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) error: %v", s, err)
	}
	return parsed
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	parsed, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error: %v", s, err)
	}
	return parsed
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetScheduleNotFound(t *testing.T) {
	rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodGet, "/providers/p1/schedule", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "not_found" {
		t.Fatalf("code = %q, want not_found", resp.Code)
	}
}

func TestPutSchedule(t *testing.T) {
	var got booking.SetScheduleInput
	svc := &fakeService{
		setScheduleConfigFn: func(_ context.Context, in booking.SetScheduleInput) (domain.ScheduleConfig, error) {
			got = in
			return domain.ScheduleConfig{
				ProviderID:      in.ProviderID,
				Start:           mustTime(t, in.Start),
				End:             mustTime(t, in.End),
				IntervalMinutes: in.IntervalMinutes,
			}, nil
		},
	}

	body := `{"start":"09:00","end":"17:00","interval_minutes":30}`
	rec := doRequest(t, newTestRouter(svc), http.MethodPut, "/providers/p1/schedule", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got.ProviderID != "p1" || got.Start != "09:00" || got.End != "17:00" || got.IntervalMinutes != 30 {
		t.Fatalf("service received %+v", got)
	}

	var resp scheduleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ProviderID != "p1" || resp.Start.String() != "09:00" || resp.End.String() != "17:00" || resp.IntervalMinutes != 30 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestPutScheduleRejectsIncompleteBody(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"start":"09:00"}`,
		`{"start":"09:00","end":"17:00","interval_minutes":0}`,
	} {
		rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodPut, "/providers/p1/schedule", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestPostClosure(t *testing.T) {
	var got booking.ClosureInput
	svc := &fakeService{
		setClosureFn: func(_ context.Context, in booking.ClosureInput) error {
			got = in
			return nil
		},
	}

	body := `{"date":"2026-09-01","time":"09:30","closed":true}`
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/providers/p1/closures", body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 (body %s)", rec.Code, rec.Body.String())
	}
	want := booking.ClosureInput{ProviderID: "p1", Date: "2026-09-01", Time: "09:30", Closed: true}
	if got != want {
		t.Fatalf("service received %+v, want %+v", got, want)
	}

	// closed:false must survive the required check; only a missing field fails it.
	rec = doRequest(t, newTestRouter(svc), http.MethodPost, "/providers/p1/closures",
		`{"date":"2026-09-01","time":"09:30","closed":false}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("closed=false: status = %d, want 204", rec.Code)
	}
	rec = doRequest(t, newTestRouter(svc), http.MethodPost, "/providers/p1/closures",
		`{"date":"2026-09-01","time":"09:30"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing closed: status = %d, want 400", rec.Code)
	}
}

func TestGetSlotsJSONShape(t *testing.T) {
	svc := &fakeService{
		listSlotsFn: func(_ context.Context, providerID, date string) ([]domain.Slot, error) {
			if providerID != "p1" || date != "2026-09-01" {
				t.Fatalf("ListSlots called with %q %q", providerID, date)
			}
			return []domain.Slot{
				{Time: mustTime(t, "09:00"), Status: domain.SlotFree},
				{Time: mustTime(t, "09:30"), Status: domain.SlotClosed},
				{Time: mustTime(t, "10:00"), Status: domain.SlotBooked},
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/providers/p1/slots?date=2026-09-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []map[string]string{
		{"time": "09:00", "status": "free"},
		{"time": "09:30", "status": "closed"},
		{"time": "10:00", "status": "booked"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i]["time"] != want[i]["time"] || got[i]["status"] != want[i]["status"] {
			t.Fatalf("slot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGetBookedTimesEmptyIsArray(t *testing.T) {
	rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodGet, "/providers/p1/booked-times?date=2026-09-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}

func TestPostBookingCreated(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{
		createBookingFn: func(_ context.Context, in booking.CreateBookingInput) (domain.Booking, error) {
			return domain.Booking{
				ID:          id,
				ProviderID:  in.ProviderID,
				RequesterID: in.RequesterID,
				Date:        mustDate(t, in.Date),
				Time:        mustTime(t, in.Time),
			}, nil
		},
	}

	body := `{"provider_id":"p1","requester_id":"r1","date":"2026-09-01","time":"09:00"}`
	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/bookings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp bookingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BookingID != id.String() || resp.ProviderID != "p1" || resp.RequesterID != "r1" ||
		resp.Date.String() != "2026-09-01" || resp.Time.String() != "09:00" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestPostBookingConflicts(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"taken", store.ErrSlotTaken, "slot_already_booked"},
		{"closed", store.ErrSlotClosed, "slot_closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{
				createBookingFn: func(_ context.Context, _ booking.CreateBookingInput) (domain.Booking, error) {
					return domain.Booking{}, tc.err
				},
			}
			body := `{"provider_id":"p1","requester_id":"r1","date":"2026-09-01","time":"09:00"}`
			rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/bookings", body)
			if rec.Code != http.StatusConflict {
				t.Fatalf("status = %d, want 409", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestPostBookingMissingFields(t *testing.T) {
	body := `{"provider_id":"p1","date":"2026-09-01","time":"09:00"}`
	rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodPost, "/bookings", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "invalid_request" {
		t.Fatalf("code = %q, want invalid_request", resp.Code)
	}
}

func TestDeleteBooking(t *testing.T) {
	id := uuid.New()
	var gotActor string
	var gotID uuid.UUID
	svc := &fakeService{
		cancelBookingFn: func(_ context.Context, actorID string, bookingID uuid.UUID) error {
			gotActor, gotID = actorID, bookingID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/bookings/"+id.String(), nil)
	req.Header.Set("X-Actor-ID", "r1")
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 (body %s)", rec.Code, rec.Body.String())
	}
	if gotActor != "r1" || gotID != id {
		t.Fatalf("service received actor %q id %s", gotActor, gotID)
	}
}

func TestDeleteBookingRejectsBadID(t *testing.T) {
	rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodDelete, "/bookings/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteBookingForbidden(t *testing.T) {
	svc := &fakeService{
		cancelBookingFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			return booking.ErrNotAllowed
		},
	}
	rec := doRequest(t, newTestRouter(svc), http.MethodDelete, "/bookings/"+uuid.NewString(), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "not_allowed" {
		t.Fatalf("code = %q, want not_allowed", resp.Code)
	}
}

func TestGetBookingHistoryStatuses(t *testing.T) {
	svc := &fakeService{
		listBookingHistoryFn: func(_ context.Context, requesterID string) ([]booking.HistoryEntry, error) {
			if requesterID != "r1" {
				t.Fatalf("requesterID = %q, want r1", requesterID)
			}
			return []booking.HistoryEntry{
				{Booking: domain.Booking{ID: uuid.New(), Date: mustDate(t, "2026-09-02"), Time: mustTime(t, "09:00")}, Past: false},
				{Booking: domain.Booking{ID: uuid.New(), Date: mustDate(t, "2026-08-01"), Time: mustTime(t, "09:00")}, Past: true},
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/requesters/r1/bookings/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []historyEntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Status != "future" || got[1].Status != "past" {
		t.Fatalf("statuses = %q, %q", got[0].Status, got[1].Status)
	}
}

func TestGetNextBookingNotFound(t *testing.T) {
	rec := doRequest(t, newTestRouter(&fakeService{}), http.MethodGet, "/requesters/r1/bookings/next", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetFutureBookings(t *testing.T) {
	svc := &fakeService{
		listFutureBookingsFn: func(_ context.Context, _ string) ([]domain.Booking, error) {
			return []domain.Booking{
				{ID: uuid.New(), ProviderID: "p1", RequesterID: "r1", Date: mustDate(t, "2026-09-02"), Time: mustTime(t, "09:00")},
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/requesters/r1/bookings/future", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []bookingResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].ProviderID != "p1" {
		t.Fatalf("response = %+v", got)
	}
}
