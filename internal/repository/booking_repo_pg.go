package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `b.id, b.reference, b.flight_id, b.passenger_name, b.passenger_email, b.passenger_phone, b.passengers, b.total_price_cents, b.status, COALESCE(b.special_requests, ''), b.created_at, b.updated_at`

type BookingRepository interface {
	// Create reserves booking.Passengers seats and inserts the booking as a
	// single transaction. On success booking is filled in, including the
	// total price computed from the flight price at reservation time.
	Create(ctx context.Context, booking *domain.Booking) error
	// Cancel flips a confirmed or pending booking to cancelled and restores
	// its seats, as a single transaction.
	Cancel(ctx context.Context, ref string) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create performs the reservation. The conditional UPDATE takes a row lock on
// the flight, so concurrent reservations against the same flight serialize
// and the availability check cannot race with the decrement. The booking
// insert commits in the same transaction: an observer never sees one side
// without the other.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapPGError(err)
	}
	defer tx.Rollback(ctx)

	var priceCents int64
	err = tx.QueryRow(ctx, `UPDATE flights
		SET available_seats = available_seats - $2, updated_at = now()
		WHERE id = $1 AND status = 'scheduled' AND available_seats >= $2
		RETURNING price_cents`, booking.FlightID, booking.Passengers).Scan(&priceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.reserveFailure(ctx, tx, booking.FlightID, booking.Passengers)
		}
		return mapPGError(err)
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.TotalPriceCents = priceCents * int64(booking.Passengers)
	err = tx.QueryRow(ctx, `INSERT INTO bookings (reference, flight_id, passenger_name, passenger_email, passenger_phone, passengers, total_price_cents, status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.FlightID, booking.PassengerName, booking.PassengerEmail,
		booking.PassengerPhone, booking.Passengers, booking.TotalPriceCents, booking.Status,
		booking.SpecialRequests).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return mapPGError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPGError(err)
	}

	flight, err := r.flightByID(ctx, booking.FlightID)
	if err == nil {
		booking.Flight = flight
	}
	return nil
}

// reserveFailure tells apart the three reasons the conditional decrement can
// match no row. Read within the same transaction for a consistent view.
func (r *PGBookingRepository) reserveFailure(ctx context.Context, tx pgx.Tx, flightID int64, requested int) error {
	var status domain.FlightStatus
	var available int
	err := tx.QueryRow(ctx, `SELECT status, available_seats FROM flights WHERE id=$1`, flightID).Scan(&status, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		return mapPGError(err)
	}
	if status != domain.FlightStatusScheduled {
		return domain.ErrFlightNotBookable
	}
	return &domain.InsufficientSeatsError{Available: available, Requested: requested}
}

// Cancel restores seats unconditionally with respect to the flight's current
// status: inventory correctness is about counts, not the flight lifecycle.
// The LEAST clamp keeps available_seats within total_seats even if the rows
// were repaired by hand in between.
func (r *PGBookingRepository) Cancel(ctx context.Context, ref string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapPGError(err)
	}
	defer tx.Rollback(ctx)

	var b domain.Booking
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.reference=$1 FOR UPDATE`, ref)
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, mapPGError(err)
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	err = tx.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 RETURNING updated_at`,
		b.ID, domain.BookingStatusCancelled).Scan(&b.UpdatedAt)
	if err != nil {
		return nil, mapPGError(err)
	}
	b.Status = domain.BookingStatusCancelled

	_, err = tx.Exec(ctx, `UPDATE flights
		SET available_seats = LEAST(available_seats + $2, total_seats), updated_at = now()
		WHERE id = $1`, b.FlightID, b.Passengers)
	if err != nil {
		return nil, mapPGError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPGError(err)
	}

	if flight, err := r.flightByID(ctx, b.FlightID); err == nil {
		b.Flight = flight
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.get(ctx, `b.id=$1`, id)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	return r.get(ctx, `b.reference=$1`, ref)
}

func (r *PGBookingRepository) get(ctx context.Context, cond string, arg any) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+`, `+joinedFlightColumns+`
		FROM bookings b JOIN flights f ON f.id = b.flight_id WHERE `+cond, arg)
	var b domain.Booking
	var f domain.Flight
	if err := scanBookingWithFlight(row, &b, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, mapPGError(err)
	}
	b.Flight = &f
	return &b, nil
}

func (r *PGBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, `+joinedFlightColumns+`
		FROM bookings b JOIN flights f ON f.id = b.flight_id
		WHERE b.passenger_email=$1 ORDER BY b.created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int, error) {
	cond := `TRUE`
	args := []any{}
	if status != "" {
		args = append(args, status)
		cond = `b.status=$1`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings b WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s, %s FROM bookings b JOIN flights f ON f.id = b.flight_id
		WHERE %s ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, joinedFlightColumns, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	return bookings, total, err
}

func (r *PGBookingRepository) flightByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

const joinedFlightColumns = `f.id, f.flight_number, f.airline, f.origin, f.destination, f.departure_time, f.arrival_time, f.duration_minutes, f.price_cents, f.total_seats, f.available_seats, COALESCE(f.aircraft, ''), f.status, f.created_at, f.updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.Reference, &b.FlightID, &b.PassengerName, &b.PassengerEmail,
		&b.PassengerPhone, &b.Passengers, &b.TotalPriceCents, &b.Status, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt)
}

func scanBookingWithFlight(row pgx.Row, b *domain.Booking, f *domain.Flight) error {
	return row.Scan(&b.ID, &b.Reference, &b.FlightID, &b.PassengerName, &b.PassengerEmail,
		&b.PassengerPhone, &b.Passengers, &b.TotalPriceCents, &b.Status, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt,
		&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.PriceCents,
		&f.TotalSeats, &f.AvailableSeats, &f.Aircraft, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var f domain.Flight
		if err := scanBookingWithFlight(rows, &b, &f); err != nil {
			return nil, err
		}
		b.Flight = &f
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
