package entity

import (
	"time"

	"github.com/google/uuid"
)

// Listing represents a rental property advertised on the platform.
// Price is stored in the smallest currency unit per night.
type Listing struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageSrc      string    `json:"image_src"`
	Category      string    `json:"category"`
	RoomCount     int       `json:"room_count"`
	BathroomCount int       `json:"bathroom_count"`
	GuestCount    int       `json:"guest_count"`
	Country       string    `json:"country"`
	Region        string    `json:"region"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Price         int       `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}
