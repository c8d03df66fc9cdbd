package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stayhaven/rentals/api/internal/dto"
	"github.com/stayhaven/rentals/api/internal/middleware"
	"github.com/stayhaven/rentals/api/internal/service"
)

// ListingsHandler exposes the listing search, detail and creation endpoints.
type ListingsHandler struct {
	listings *service.ListingsService
}

// NewListingsHandler constructs a ListingsHandler.
func NewListingsHandler(listings *service.ListingsService) *ListingsHandler {
	return &ListingsHandler{listings: listings}
}

// List handles GET /listings requests. All filters are optional; an empty or
// garbled value behaves the same as an absent one.
func (h *ListingsHandler) List(c echo.Context) error {
	filter := dto.ListingFilter{
		UserID:        strings.TrimSpace(c.QueryParam("userId")),
		Category:      strings.TrimSpace(c.QueryParam("category")),
		Country:       strings.TrimSpace(c.QueryParam("country")),
		RoomCount:     strings.TrimSpace(c.QueryParam("roomCount")),
		GuestCount:    strings.TrimSpace(c.QueryParam("guestCount")),
		BathroomCount: strings.TrimSpace(c.QueryParam("bathroomCount")),
		StartDate:     parseDateParam(c.QueryParam("startDate")),
		EndDate:       parseDateParam(c.QueryParam("endDate")),
		Cursor:        strings.TrimSpace(c.QueryParam("cursor")),
	}

	page := h.listings.GetListings(c.Request().Context(), filter)
	return Success(c, http.StatusOK, "listings retrieved", page)
}

// GetByID handles GET /listings/:id requests.
func (h *ListingsHandler) GetByID(c echo.Context) error {
	detail, err := h.listings.GetListingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load listing")
	}
	if detail == nil {
		return Error(c, http.StatusNotFound, "listing not found")
	}
	return Success(c, http.StatusOK, "listing retrieved", detail)
}

// Create handles POST /listings requests. The owner always comes from the
// authenticated identity, never from the payload.
func (h *ListingsHandler) Create(c echo.Context) error {
	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	var userID uuid.UUID
	if raw := middleware.UserIDFromContext(c); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err == nil {
			userID = parsed
		}
	}

	listing, err := h.listings.CreateListing(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnauthorized):
			return Error(c, http.StatusUnauthorized, "unauthorized")
		default:
			return Error(c, http.StatusInternalServerError, "failed to create listing")
		}
	}

	return Success(c, http.StatusCreated, "listing created", listing)
}

// parseDateParam accepts date-only and RFC3339 timestamps. Anything else
// resolves to nil, matching the absent-filter behaviour.
func parseDateParam(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}
