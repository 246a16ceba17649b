package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DavidMoa26/flights/config"
	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/redis/go-redis/v9"
)

const flightsKeyPrefix = "cache:flights:"

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

// NewWithClient is used by tests to inject a mock client.
func NewWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

type flightPage struct {
	Flights []domain.Flight `json:"flights"`
	Total   int             `json:"total"`
}

// GetFlightPage returns a cached search result page, or (nil, 0, nil) on a
// cache miss.
func (c *RedisCache) GetFlightPage(ctx context.Context, key string) ([]domain.Flight, int, error) {
	data, err := c.client.Get(ctx, flightsKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	var page flightPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, 0, err
	}
	return page.Flights, page.Total, nil
}

func (c *RedisCache) SetFlightPage(ctx context.Context, key string, flights []domain.Flight, total int) error {
	payload, err := json.Marshal(flightPage{Flights: flights, Total: total})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKeyPrefix+key, payload, c.flightsTTL).Err()
}

// InvalidateFlights drops every cached search page. Called after any write
// that changes availability, so cached listings never outlive a booking by
// more than one request.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, flightsKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// SearchKey builds a stable cache key for a search request.
func SearchKey(params domain.FlightSearch) string {
	date := ""
	if params.DepartureDate != nil {
		date = params.DepartureDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%s|%s|%d|%d|%d",
		params.Origin, params.Destination, date, params.MinSeats, params.Page, params.Limit)
}
