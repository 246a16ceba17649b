package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:ref", h.get)
	router.DELETE("/:ref", h.cancel)
}

type createBookingRequest struct {
	FlightID        int64  `json:"flight_id"`
	PassengerName   string `json:"passenger_name"`
	PassengerEmail  string `json:"passenger_email"`
	PassengerPhone  string `json:"passenger_phone"`
	Passengers      int    `json:"passengers"`
	SpecialRequests string `json:"special_requests"`
}

type bookingResponse struct {
	ID              int64           `json:"id"`
	Reference       string          `json:"reference"`
	FlightID        int64           `json:"flight_id"`
	PassengerName   string          `json:"passenger_name"`
	PassengerEmail  string          `json:"passenger_email"`
	PassengerPhone  string          `json:"passenger_phone"`
	Passengers      int             `json:"passengers"`
	TotalPrice      string          `json:"total_price"`
	Status          string          `json:"status"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	CreatedAt       string          `json:"created_at"`
	Flight          *flightResponse `json:"flight,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		FlightID:        b.FlightID,
		PassengerName:   b.PassengerName,
		PassengerEmail:  b.PassengerEmail,
		PassengerPhone:  b.PassengerPhone,
		Passengers:      b.Passengers,
		TotalPrice:      domain.FormatCents(b.TotalPriceCents),
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if b.Flight != nil {
		f := toFlightResponse(b.Flight)
		resp.Flight = &f
	}
	return resp
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		FlightID:        req.FlightID,
		PassengerName:   req.PassengerName,
		PassengerEmail:  req.PassengerEmail,
		PassengerPhone:  req.PassengerPhone,
		Passengers:      req.Passengers,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

// list serves both the per-passenger view (?email=) and the paginated admin
// listing with an optional status filter.
func (h *BookingHandler) list(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		bookings, err := h.service.ListByEmail(c.Request.Context(), email)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]bookingResponse, 0, len(bookings))
		for i := range bookings {
			resp = append(resp, toBookingResponse(&bookings[i]))
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	page, err := queryInt(c, "page", 1, 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := queryInt(c, "limit", 10, 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := domain.BookingStatus(c.Query("status"))

	bookings, total, err := h.service.List(c.Request.Context(), status, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings":   resp,
		"pagination": newPagination(total, page, limit),
	})
}

// get looks up by numeric internal id or by booking reference, whichever the
// path parameter parses as.
func (h *BookingHandler) get(c *gin.Context) {
	ref := c.Param("ref")

	var (
		found *domain.Booking
		err   error
	)
	if id, parseErr := strconv.ParseInt(ref, 10, 64); parseErr == nil {
		found, err = h.service.GetByID(c.Request.Context(), id)
	} else {
		found, err = h.service.GetByReference(c.Request.Context(), ref)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.Cancel(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "booking cancelled successfully",
		"booking": toBookingResponse(cancelled),
	})
}
