package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stayhaven/rentals/api/internal/dto"
	"github.com/stayhaven/rentals/api/internal/middleware"
	"github.com/stayhaven/rentals/api/internal/service"
)

// ReservationsHandler serves the bookings made on a host's properties.
type ReservationsHandler struct {
	reservations *service.ReservationsService
}

// NewReservationsHandler constructs a ReservationsHandler.
func NewReservationsHandler(reservations *service.ReservationsService) *ReservationsHandler {
	return &ReservationsHandler{reservations: reservations}
}

// List handles GET /reservations requests. The host defaults to the
// authenticated user when the query string names none.
func (h *ReservationsHandler) List(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("userId"))
	if userID == "" {
		userID = middleware.UserIDFromContext(c)
	}
	if userID == "" {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	filter := dto.ReservationFilter{
		UserID: userID,
		Cursor: strings.TrimSpace(c.QueryParam("cursor")),
	}

	page := h.reservations.GetReservations(c.Request().Context(), filter)
	return Success(c, http.StatusOK, "reservations retrieved", page)
}
