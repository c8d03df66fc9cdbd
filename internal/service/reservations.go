package service

import (
	"context"
	"log"

	"github.com/stayhaven/rentals/api/internal/dto"
	"github.com/stayhaven/rentals/api/internal/repository"
)

// ReservationsService reads the bookings made on a host's properties.
type ReservationsService struct {
	reservations repository.ReservationsRepository
}

// NewReservationsService creates a new instance of ReservationsService.
func NewReservationsService(reservations repository.ReservationsRepository) *ReservationsService {
	return &ReservationsService{reservations: reservations}
}

// GetReservations returns listing cards for the host's booked properties,
// newest booking first. Same fail-soft contract as the listing search: a
// storage error degrades to an empty page instead of propagating.
func (s *ReservationsService) GetReservations(ctx context.Context, filter dto.ReservationFilter) dto.ReservationPage {
	filter.Limit = ListingsBatch

	items, err := s.reservations.ListForHost(ctx, filter)
	if err != nil {
		log.Printf("reservation lookup failed, serving empty page: %v", err)
		return dto.ReservationPage{Listings: []dto.ReservationListing{}}
	}

	page := dto.ReservationPage{Listings: items}
	if page.Listings == nil {
		page.Listings = []dto.ReservationListing{}
	}

	if len(items) == ListingsBatch {
		last := items[len(items)-1].Reservation.ID.String()
		page.NextCursor = &last
	}

	return page
}
