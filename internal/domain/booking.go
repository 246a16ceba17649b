package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed reservation of seats on a flight. The reference is
// the externally shared identifier; ID stays internal. TotalPriceCents is
// frozen at creation time and never recomputed, even if the flight price
// changes afterwards.
type Booking struct {
	ID              int64         `json:"id"`
	Reference       string        `json:"reference"`
	FlightID        int64         `json:"flight_id"`
	PassengerName   string        `json:"passenger_name"`
	PassengerEmail  string        `json:"passenger_email"`
	PassengerPhone  string        `json:"passenger_phone"`
	Passengers      int           `json:"passengers"`
	TotalPriceCents int64         `json:"total_price_cents"`
	Status          BookingStatus `json:"status"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Flight is the resolved flight snapshot, populated on reads.
	Flight *Flight `json:"flight,omitempty"`
}
