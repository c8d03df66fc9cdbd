package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/stayhaven/rentals/api/internal/entity"
)

// ListingFilter carries the optional query parameters accepted by listing
// searches. String values arrive raw from the query string; empty means
// absent. The min-count filters parse lazily in the repository, and a value
// that parses to zero is treated exactly like an absent one — "at least zero
// rooms" cannot be expressed. That ambiguity is inherited behaviour, kept and
// pinned by tests rather than fixed.
type ListingFilter struct {
	UserID        string
	Category      string
	Country       string
	RoomCount     string
	GuestCount    string
	BathroomCount string
	StartDate     *time.Time
	EndDate       *time.Time
	Cursor        string
	Limit         int
}

// ListingPage is one page of search results. NextCursor is the id of the last
// row when the page came back full, nil when the result set is exhausted.
type ListingPage struct {
	Listings   []entity.Listing `json:"listings"`
	NextCursor *string          `json:"next_cursor"`
}

// ListingDetail joins a listing with its owner and the booked date spans.
type ListingDetail struct {
	entity.Listing
	Owner        entity.PublicUser        `json:"user"`
	Reservations []entity.ReservationSpan `json:"reservations"`
}

// LocationInput mirrors the nested location object submitted by the listing
// form: a region, a country label and an optional [lat, lng] pair.
type LocationInput struct {
	Region string    `json:"region"`
	Label  string    `json:"label"`
	LatLng []float64 `json:"latlng"`
}

// CreateListingRequest is the listing form submission. Field names follow the
// client payload, which uses camelCase.
type CreateListingRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	ImageSrc      string         `json:"image"`
	Category      string         `json:"category"`
	RoomCount     int            `json:"roomCount"`
	BathroomCount int            `json:"bathroomCount"`
	GuestCount    int            `json:"guestCount"`
	Location      *LocationInput `json:"location"`
	Price         Price          `json:"price"`
}

// Price accepts both JSON string and number forms, mirroring the loose
// submission format of the listing form.
type Price struct {
	raw    string
	quoted bool
	set    bool
}

// PriceFromString builds a Price as if the form had submitted a string value.
func PriceFromString(value string) Price {
	return Price{raw: value, quoted: true, set: true}
}

// PriceFromNumber builds a Price as if the form had submitted a number.
func PriceFromNumber(value float64) Price {
	return Price{raw: strconv.FormatFloat(value, 'f', -1, 64), set: true}
}

// UnmarshalJSON records the raw value and whether it was quoted. Bare numbers
// are normalized through float formatting so exponent notation carries its
// full digits into the leading-digit parse.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.raw = s
		p.quoted = true
	} else {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		p.raw = strconv.FormatFloat(f, 'f', -1, 64)
	}
	p.set = true
	return nil
}

// Truthy reports whether the submitted price counts as provided under the
// legacy falsy rule: absent values, numeric zero and the empty string all
// fail, while the string "0" passes and then parses to zero.
func (p Price) Truthy() bool {
	if !p.set {
		return false
	}
	if p.quoted {
		return p.raw != ""
	}
	f, err := strconv.ParseFloat(p.raw, 64)
	if err != nil {
		return false
	}
	return f != 0
}

// Int parses the price the way the old form handler did: optional sign, then
// leading base-10 digits. Anything non-numeric yields zero, silently.
func (p Price) Int() int {
	s := strings.TrimSpace(p.raw)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0
	}
	return n
}
