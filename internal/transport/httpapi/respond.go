package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/service/booking"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto HTTP statuses with
// machine-readable codes, so a client can tell "pick another time" apart
// from "retry later". Unclassified errors are logged and reported as a
// generic internal error; store detail never reaches the caller.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrSlotTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "slot already booked", Code: "slot_already_booked"})
	case errors.Is(err, store.ErrSlotClosed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "slot closed", Code: "slot_closed"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Code: "not_found"})
	case errors.Is(err, booking.ErrNotAllowed):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not allowed", Code: "not_allowed"})
	default:
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error(), Code: "invalid_request"})
			return
		}
		log.Error("request failed", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_request"})
}
