package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayhaven/rentals/api/internal/dto"
)

// ReservationsRepository reads bookings for the host reservations page.
type ReservationsRepository interface {
	ListForHost(ctx context.Context, filter dto.ReservationFilter) ([]dto.ReservationListing, error)
}

// PGXReservationsRepository implements ReservationsRepository using pgx.
type PGXReservationsRepository struct {
	pool pgxPool
}

// NewPGXReservationsRepository wires a pgx backed repository.
func NewPGXReservationsRepository(pool *pgxpool.Pool) *PGXReservationsRepository {
	return &PGXReservationsRepository{pool: pool}
}

// ListForHost returns reservations made on the host's properties, newest
// booking first, each paired with the listing it belongs to. The host filter
// is always active, so the cursor row is not skipped on resume — same rule as
// a filtered listing search.
func (r *PGXReservationsRepository) ListForHost(ctx context.Context, filter dto.ReservationFilter) ([]dto.ReservationListing, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("host id must not be empty")
	}

	clauses := []string{"l.user_id = $1"}
	args := []any{filter.UserID}
	idx := 2

	if filter.Cursor != "" {
		cursorID, err := uuid.Parse(filter.Cursor)
		if err != nil {
			return nil, fmt.Errorf("parse cursor: %w", err)
		}

		var cursorCreatedAt time.Time
		err = r.pool.QueryRow(ctx, `SELECT created_at FROM reservations WHERE id = $1`, cursorID).Scan(&cursorCreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("resolve cursor: %w", err)
		}

		clauses = append(clauses, fmt.Sprintf("(res.created_at, res.id) <= ($%d, $%d)", idx, idx+1))
		args = append(args, cursorCreatedAt, cursorID)
		idx += 2
	}

	query := strings.Builder{}
	query.WriteString(`
        SELECT res.id, res.listing_id, res.user_id, res.start_date, res.end_date,
               res.total_price, res.created_at,
               l.id, l.user_id, l.title, l.description, l.image_src, l.category,
               l.room_count, l.bathroom_count, l.guest_count, l.country, l.region,
               l.latitude, l.longitude, l.price, l.created_at
        FROM reservations res
        JOIN listings l ON l.id = res.listing_id
    `)
	query.WriteString(" WHERE ")
	query.WriteString(strings.Join(clauses, " AND "))
	query.WriteString(" ORDER BY res.created_at DESC, res.id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListingLimit
	}
	query.WriteString(fmt.Sprintf(" LIMIT $%d", idx))
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	return scanReservationListings(rows)
}

func scanReservationListings(rows pgx.Rows) ([]dto.ReservationListing, error) {
	var items []dto.ReservationListing
	for rows.Next() {
		var (
			item      dto.ReservationListing
			latitude  sql.NullFloat64
			longitude sql.NullFloat64
		)

		err := rows.Scan(
			&item.Reservation.ID,
			&item.Reservation.ListingID,
			&item.Reservation.UserID,
			&item.Reservation.StartDate,
			&item.Reservation.EndDate,
			&item.Reservation.TotalPrice,
			&item.Reservation.CreatedAt,
			&item.ID,
			&item.UserID,
			&item.Title,
			&item.Description,
			&item.ImageSrc,
			&item.Category,
			&item.RoomCount,
			&item.BathroomCount,
			&item.GuestCount,
			&item.Country,
			&item.Region,
			&latitude,
			&longitude,
			&item.Price,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}

		item.Latitude = nullFloatToPtr(latitude)
		item.Longitude = nullFloatToPtr(longitude)

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return items, nil
}
