package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/DavidMoa26/flights/config"
	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/repository"
	"github.com/DavidMoa26/flights/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seeds a set of demo flights. Safe to re-run: flights that already exist
// keep their current availability, duplicates are skipped.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	service := flights.NewFlightService(repository.NewFlightRepository(pool), nil)

	day := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	seeds := []flights.CreateFlightInput{
		{FlightNumber: "AA101", Airline: "American Airlines", Origin: "New York", Destination: "Los Angeles",
			DepartureTime: day.Add(8 * time.Hour), ArrivalTime: day.Add(14*time.Hour + 30*time.Minute),
			PriceCents: 29999, TotalSeats: 180, Aircraft: "Boeing 737-800"},
		{FlightNumber: "DL205", Airline: "Delta Air Lines", Origin: "New York", Destination: "Miami",
			DepartureTime: day.Add(10*time.Hour + 30*time.Minute), ArrivalTime: day.Add(13*time.Hour + 45*time.Minute),
			PriceCents: 18999, TotalSeats: 160, Aircraft: "Airbus A320"},
		{FlightNumber: "UA350", Airline: "United Airlines", Origin: "Chicago", Destination: "San Francisco",
			DepartureTime: day.Add(14*time.Hour + 15*time.Minute), ArrivalTime: day.Add(17*time.Hour + 45*time.Minute),
			PriceCents: 34999, TotalSeats: 200, Aircraft: "Boeing 777-200"},
		{FlightNumber: "SW420", Airline: "Southwest Airlines", Origin: "Dallas", Destination: "Las Vegas",
			DepartureTime: day.Add(16 * time.Hour), ArrivalTime: day.Add(17*time.Hour + 30*time.Minute),
			PriceCents: 15999, TotalSeats: 143, Aircraft: "Boeing 737-700"},
		{FlightNumber: "JB180", Airline: "JetBlue Airways", Origin: "Boston", Destination: "Orlando",
			DepartureTime: day.Add(9*time.Hour + 45*time.Minute), ArrivalTime: day.Add(13 * time.Hour),
			PriceCents: 21999, TotalSeats: 150, Aircraft: "Airbus A320"},
		{FlightNumber: "AS675", Airline: "Alaska Airlines", Origin: "Seattle", Destination: "Anchorage",
			DepartureTime: day.Add(11*time.Hour + 20*time.Minute), ArrivalTime: day.Add(15*time.Hour + 45*time.Minute),
			PriceCents: 38999, TotalSeats: 124, Aircraft: "Boeing 737-900"},
		{FlightNumber: "F9810", Airline: "Frontier Airlines", Origin: "Denver", Destination: "Phoenix",
			DepartureTime: day.Add(13*time.Hour + 30*time.Minute), ArrivalTime: day.Add(15*time.Hour + 15*time.Minute),
			PriceCents: 12999, TotalSeats: 186, Aircraft: "Airbus A320neo"},
		{FlightNumber: "HA455", Airline: "Hawaiian Airlines", Origin: "Los Angeles", Destination: "Honolulu",
			DepartureTime: day.Add(22*time.Hour + 30*time.Minute), ArrivalTime: day.Add(27*time.Hour + 45*time.Minute),
			PriceCents: 45999, TotalSeats: 294, Aircraft: "Airbus A330-200"},
	}

	created := 0
	for _, input := range seeds {
		if _, err := service.Create(ctx, input); err != nil {
			if errors.Is(err, domain.ErrDuplicateFlightNumber) {
				log.Printf("skip %s: already seeded", input.FlightNumber)
				continue
			}
			log.Fatalf("seed %s: %v", input.FlightNumber, err)
		}
		created++
	}
	log.Printf("seeded %d flights", created)
}
