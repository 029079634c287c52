package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// ReservationService is everything the router needs from the application layer.
type ReservationService interface {
	ReservationAdmitter
	ReservationReader
	ReservationCanceller
	AvailabilityReader
}

// NewRouter wires the booking API routes.
func NewRouter(svc ReservationService) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/health", HealthHandler)
	router.Handler(http.MethodPost, "/api/reservations", HandleCreateReservation(svc))
	router.GET("/api/reservations/:id", HandleGetReservation(svc))
	router.POST("/api/reservations/:id/cancel", HandleCancelReservation(svc))
	router.Handler(http.MethodGet, "/api/availability", HandleAvailability(svc))

	router.NotFound = NotFoundHandler()
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return router
}
