package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.search)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
}

// RegisterRoutes mounts the popular-routes listing on its own group to keep
// it out of the /flights/:id wildcard.
func (h *FlightHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/popular", h.popularRoutes)
}

type flightResponse struct {
	ID              int64  `json:"id"`
	FlightNumber    string `json:"flight_number"`
	Airline         string `json:"airline"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           string `json:"price"`
	TotalSeats      int    `json:"total_seats"`
	AvailableSeats  int    `json:"available_seats"`
	Aircraft        string `json:"aircraft,omitempty"`
	Status          string `json:"status"`
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:              f.ID,
		FlightNumber:    f.FlightNumber,
		Airline:         f.Airline,
		Origin:          f.Origin,
		Destination:     f.Destination,
		DepartureTime:   f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:     f.ArrivalTime.Format(time.RFC3339),
		DurationMinutes: f.DurationMinutes,
		Price:           domain.FormatCents(f.PriceCents),
		TotalSeats:      f.TotalSeats,
		AvailableSeats:  f.AvailableSeats,
		Aircraft:        f.Aircraft,
		Status:          string(f.Status),
	}
}

func (h *FlightHandler) search(c *gin.Context) {
	params := domain.FlightSearch{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}
	if date := c.Query("departure_date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date, expected YYYY-MM-DD"})
			return
		}
		params.DepartureDate = &day
	}
	var err error
	if params.MinSeats, err = queryInt(c, "passengers", 1, 1); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Page, err = queryInt(c, "page", 1, 1); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Limit, err = queryInt(c, "limit", 20, 1); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, total, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]flightResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toFlightResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"flights":    resp,
		"pagination": newPagination(total, params.Page, params.Limit),
	})
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

type createFlightRequest struct {
	FlightNumber  string    `json:"flight_number"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         string    `json:"price"`
	TotalSeats    int       `json:"total_seats"`
	Aircraft      string    `json:"aircraft"`
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	priceCents, err := domain.ParseCents(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		FlightNumber:  req.FlightNumber,
		Airline:       req.Airline,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		PriceCents:    priceCents,
		TotalSeats:    req.TotalSeats,
		Aircraft:      req.Aircraft,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) popularRoutes(c *gin.Context) {
	limit, err := queryInt(c, "limit", 10, 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	routes, err := h.service.PopularRoutes(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	type routeResponse struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
		FlightCount int    `json:"flight_count"`
		MinPrice    string `json:"min_price"`
		MaxPrice    string `json:"max_price"`
	}
	resp := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		resp = append(resp, routeResponse{
			Origin:      r.Origin,
			Destination: r.Destination,
			FlightCount: r.FlightCount,
			MinPrice:    domain.FormatCents(r.MinPriceCents),
			MaxPrice:    domain.FormatCents(r.MaxPriceCents),
		})
	}
	c.JSON(http.StatusOK, resp)
}
