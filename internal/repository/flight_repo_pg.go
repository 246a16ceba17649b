package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightColumns = `id, flight_number, airline, origin, destination, departure_time, arrival_time, duration_minutes, price_cents, total_seats, available_seats, COALESCE(aircraft, ''), status, created_at, updated_at`

type FlightRepository interface {
	Search(ctx context.Context, params domain.FlightSearch) ([]domain.Flight, int, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	PopularRoutes(ctx context.Context, limit int) ([]domain.RouteStats, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.PriceCents,
		&f.TotalSeats, &f.AvailableSeats, &f.Aircraft, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

// Search lists upcoming scheduled flights matching the filters, newest page
// first by departure time. The second return value is the total match count
// before pagination.
func (r *PGFlightRepository) Search(ctx context.Context, params domain.FlightSearch) ([]domain.Flight, int, error) {
	conds := []string{"status = 'scheduled'", "departure_time >= now()"}
	args := []any{}

	if params.Origin != "" {
		args = append(args, "%"+params.Origin+"%")
		conds = append(conds, fmt.Sprintf("origin ILIKE $%d", len(args)))
	}
	if params.Destination != "" {
		args = append(args, "%"+params.Destination+"%")
		conds = append(conds, fmt.Sprintf("destination ILIKE $%d", len(args)))
	}
	if params.DepartureDate != nil {
		day := params.DepartureDate.Truncate(24 * time.Hour)
		args = append(args, day)
		conds = append(conds, fmt.Sprintf("departure_time >= $%d", len(args)))
		args = append(args, day.Add(24*time.Hour))
		conds = append(conds, fmt.Sprintf("departure_time < $%d", len(args)))
	}
	minSeats := params.MinSeats
	if minSeats < 1 {
		minSeats = 1
	}
	args = append(args, minSeats)
	conds = append(conds, fmt.Sprintf("available_seats >= $%d", len(args)))

	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM flights WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s FROM flights WHERE %s ORDER BY departure_time LIMIT $%d OFFSET $%d`,
		flightColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, 0, err
		}
		flights = append(flights, f)
	}
	return flights, total, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Create inserts a flight with all seats available. totalSeats is fixed from
// this point on; available_seats only moves through booking operations.
func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	f.AvailableSeats = f.TotalSeats
	f.DurationMinutes = int(f.ArrivalTime.Sub(f.DepartureTime).Minutes())
	if f.Status == "" {
		f.Status = domain.FlightStatusScheduled
	}
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, origin, destination, departure_time, arrival_time, duration_minutes, price_cents, total_seats, available_seats, aircraft, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING id, created_at, updated_at`,
		f.FlightNumber, f.Airline, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime,
		f.DurationMinutes, f.PriceCents, f.TotalSeats, f.AvailableSeats, f.Aircraft, f.Status).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (r *PGFlightRepository) PopularRoutes(ctx context.Context, limit int) ([]domain.RouteStats, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `SELECT origin, destination, count(*), min(price_cents), max(price_cents)
		FROM flights
		WHERE status = 'scheduled' AND departure_time >= now()
		GROUP BY origin, destination
		ORDER BY count(*) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.RouteStats, 0)
	for rows.Next() {
		var rt domain.RouteStats
		if err := rows.Scan(&rt.Origin, &rt.Destination, &rt.FlightCount, &rt.MinPriceCents, &rt.MaxPriceCents); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
