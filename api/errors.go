package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy onto HTTP responses. Structured
// failures keep their detail fields so the client can render a precise
// message.
func writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var seatsErr *domain.InsufficientSeatsError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &seatsErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "not enough available seats",
			"available_seats": seatsErr.Available,
			"requested_seats": seatsErr.Requested,
		})
	case errors.Is(err, domain.ErrFlightNotFound), errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFlightNotBookable), errors.Is(err, domain.ErrAlreadyCancelled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateReference), errors.Is(err, domain.ErrDuplicateFlightNumber):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTransactionConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// queryInt reads an integer query parameter, using def when the parameter is
// absent. Unparseable input and values below min are rejected so malformed
// pagination never reaches the services.
func queryInt(c *gin.Context, name string, def, min int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return 0, fmt.Errorf("%s must be an integer greater than or equal to %d", name, min)
	}
	return v, nil
}

type paginationResponse struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

func newPagination(total, page, limit int) paginationResponse {
	pages := (total + limit - 1) / limit
	return paginationResponse{Total: total, Page: page, Pages: pages, Limit: limit}
}
