package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is a guest booking against a listing. Reservations are created
// outside this service; they are read here for overlap filtering and for the
// host's reservations page.
type Reservation struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	UserID     uuid.UUID `json:"user_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice int       `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReservationSpan is the (start, end) projection consumed by the availability
// calendar on the listing detail page.
type ReservationSpan struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
