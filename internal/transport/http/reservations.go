package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/angela142004/taller-mecanico-api/internal/app"
	"github.com/angela142004/taller-mecanico-api/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

var validate = validator.New()

// ReservationAdmitter is the minimal interface needed to create a reservation.
type ReservationAdmitter interface {
	Admit(ctx context.Context, in app.AdmissionInput) (domain.Reservation, app.AdmissionMeta, error)
}

type ReservationReader interface {
	GetReservation(ctx context.Context, id int64) (domain.Reservation, error)
}

type ReservationCanceller interface {
	Cancel(ctx context.Context, id int64) error
}

type AvailabilityReader interface {
	Availability(ctx context.Context, serviceID int64, date, startTime string) (app.SlotAvailability, error)
}

// HandleCreateReservation returns the handler for booking a slot.
func HandleCreateReservation(svc ReservationAdmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, validationMessage(err))
			return
		}

		res, meta, err := svc.Admit(r.Context(), app.AdmissionInput{
			ServiceID: req.ServiceID,
			VehicleID: req.VehicleID,
			ClientID:  req.ClientID,
			Date:      req.Date,
			StartTime: req.StartTime,
		})
		if err != nil {
			writeAdmissionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createReservationResponse{
			Reservation: toReservationPayload(res),
			Meta: admissionMetaPayload{
				Capacity:   meta.Capacity,
				PriorCount: meta.PriorCount,
			},
		})
	}
}

// HandleGetReservation returns the handler for fetching one reservation.
func HandleGetReservation(svc ReservationReader) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidID, "invalid reservation id")
			return
		}

		res, err := svc.GetReservation(r.Context(), id)
		if err != nil {
			writeAdmissionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toReservationPayload(res))
	}
}

// HandleCancelReservation returns the handler for releasing a booked slot.
func HandleCancelReservation(svc ReservationCanceller) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidID, "invalid reservation id")
			return
		}

		if err := svc.Cancel(r.Context(), id); err != nil {
			writeAdmissionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAvailability returns the handler for the read-only slot snapshot.
func HandleAvailability(svc AvailabilityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		serviceID, err := strconv.ParseInt(q.Get("service_id"), 10, 64)
		if err != nil || serviceID <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "service_id is required")
			return
		}

		snapshot, err := svc.Availability(r.Context(), serviceID, q.Get("date"), q.Get("start_time"))
		if err != nil {
			writeAdmissionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(availabilityResponse{
			Capacity:  snapshot.Capacity,
			Booked:    snapshot.Booked,
			Available: snapshot.Available,
		})
	}
}

type createReservationRequest struct {
	ServiceID int64  `json:"service_id" validate:"required,gt=0"`
	VehicleID int64  `json:"vehicle_id" validate:"required,gt=0"`
	ClientID  int64  `json:"client_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
}

type reservationPayload struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	VehicleID int64     `json:"vehicle_id"`
	ServiceID int64     `json:"service_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type admissionMetaPayload struct {
	Capacity   int `json:"capacity"`
	PriorCount int `json:"prior_count"`
}

type createReservationResponse struct {
	Reservation reservationPayload   `json:"reservation"`
	Meta        admissionMetaPayload `json:"meta"`
}

type availabilityResponse struct {
	Capacity  int `json:"capacity"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

func toReservationPayload(r domain.Reservation) reservationPayload {
	return reservationPayload{
		ID:        r.ID,
		ClientID:  r.ClientID,
		VehicleID: r.VehicleID,
		ServiceID: r.ServiceID,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

var jsonFieldNames = map[string]string{
	"ServiceID": "service_id",
	"VehicleID": "vehicle_id",
	"ClientID":  "client_id",
	"Date":      "date",
	"StartTime": "start_time",
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
