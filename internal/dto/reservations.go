package dto

import "github.com/stayhaven/rentals/api/internal/entity"

// ReservationFilter selects bookings made on a host's properties. The page
// consumer resupplies Cursor (the id of the last reservation) verbatim when
// loading more.
type ReservationFilter struct {
	UserID string
	Cursor string
	Limit  int
}

// ReservationListing pairs a listing with the booking rendered on its card.
type ReservationListing struct {
	entity.Listing
	Reservation entity.Reservation `json:"reservation"`
}

// ReservationPage is one page of host bookings, same shape as ListingPage.
type ReservationPage struct {
	Listings   []ReservationListing `json:"listings"`
	NextCursor *string              `json:"next_cursor"`
}
