package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusCompleted FlightStatus = "completed"
)

type Flight struct {
	ID              int64        `json:"id"`
	FlightNumber    string       `json:"flight_number"`
	Airline         string       `json:"airline"`
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	DepartureTime   time.Time    `json:"departure_time"`
	ArrivalTime     time.Time    `json:"arrival_time"`
	DurationMinutes int          `json:"duration_minutes"`
	PriceCents      int64        `json:"price_cents"`
	TotalSeats      int          `json:"total_seats"`
	AvailableSeats  int          `json:"available_seats"`
	Aircraft        string       `json:"aircraft,omitempty"`
	Status          FlightStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Bookable reports whether the flight currently accepts new bookings.
// Seat availability is checked separately, inside the reservation transaction.
func (f *Flight) Bookable() bool {
	return f.Status == FlightStatusScheduled
}

// FlightSearch holds the optional listing filters. Zero values mean
// "no filter"; Page and Limit are normalized by the repository.
type FlightSearch struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time
	MinSeats      int
	Page          int
	Limit         int
}

// RouteStats aggregates scheduled flights for one origin/destination pair.
type RouteStats struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	FlightCount   int    `json:"flight_count"`
	MinPriceCents int64  `json:"min_price_cents"`
	MaxPriceCents int64  `json:"max_price_cents"`
}
