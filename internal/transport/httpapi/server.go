package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// NewRouter wires all routes of the booking API. Paths take the provider or
// requester id as an opaque segment; identity itself is managed elsewhere.
func NewRouter(s *BookingServer, requestTimeout time.Duration) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.GET("/providers/:id/schedule", s.GetSchedule)
	router.PUT("/providers/:id/schedule", s.PutSchedule)
	router.POST("/providers/:id/closures", s.PostClosure)
	router.GET("/providers/:id/slots", s.GetSlots)
	router.GET("/providers/:id/booked-times", s.GetBookedTimes)

	router.POST("/bookings", s.PostBooking)
	router.DELETE("/bookings/:id", s.DeleteBooking)

	router.GET("/requesters/:id/bookings/future", s.GetFutureBookings)
	router.GET("/requesters/:id/bookings/history", s.GetBookingHistory)
	router.GET("/requesters/:id/bookings/next", s.GetNextBooking)

	return withRequestTimeout(requestTimeout, router)
}

// withRequestTimeout bounds each request's context unless the caller already
// set a deadline.
func withRequestTimeout(timeout time.Duration, next http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
