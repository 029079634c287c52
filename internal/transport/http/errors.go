package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/angela142004/taller-mecanico-api/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeValidationFailed   = "validation_failed"
	codeInvalidDate        = "invalid_date"
	codeInvalidTime        = "invalid_time"
	codeEndsPastMidnight   = "ends_past_midnight"
	codeInvalidID          = "invalid_id"
	codeServiceNotFound    = "service_not_found"
	codeReservationMissing = "reservation_not_found"
	codeNoCapacity         = "no_capacity_available"
	codeSlotFull           = "slot_full"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	// Slot diagnostics, present only for slot_full rejections.
	Available *int `json:"available,omitempty"`
	Capacity  *int `json:"capacity,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeAdmissionError maps the admission error taxonomy onto HTTP statuses:
// input errors 400, unknown references 404, slot contention 409, an empty
// capacity pool 503, everything else a generic 500.
func writeAdmissionError(w http.ResponseWriter, err error) {
	var full *domain.SlotFullError
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
	case errors.Is(err, domain.ErrInvalidTime):
		writeError(w, http.StatusBadRequest, codeInvalidTime, err.Error())
	case errors.Is(err, domain.ErrEndsPastMidnight):
		writeError(w, http.StatusBadRequest, codeEndsPastMidnight, err.Error())
	case errors.Is(err, domain.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, codeServiceNotFound, err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeReservationMissing, err.Error())
	case errors.Is(err, domain.ErrNoCapacity):
		writeError(w, http.StatusServiceUnavailable, codeNoCapacity, err.Error())
	case errors.As(err, &full):
		writeErrorResponse(w, http.StatusConflict, errorResponse{
			Error:     full.Error(),
			Code:      codeSlotFull,
			Available: &full.Available,
			Capacity:  &full.Capacity,
		})
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
