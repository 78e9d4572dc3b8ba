package booking

import (
	"errors"
	"net/http"
	"strconv"

	"hotelfront/internal/billing"
	"hotelfront/internal/domain"
	"hotelfront/internal/middleware"
	"hotelfront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/charge-presets", h.ListPresets)

	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/check-in", h.CheckIn)
	rg.POST("/bookings/:id/checkout-preview", h.PreviewCheckout)
	rg.POST("/bookings/:id/check-out", h.CheckOut)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/charges", h.AddCharge)
	rg.DELETE("/bookings/:id/charges/:chargeId", h.RemoveCharge)
	rg.PATCH("/bookings/:id/deposit", h.UpdateDeposit)
}

// CreateBooking godoc
// @Summary      Create booking
// @Description  Reserves one or more rooms for a date range
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateBookingRequest true "Booking"
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	f := ListFilter{Status: domain.BookingStatus(c.Query("status"))}
	if d := c.Query("date"); d != "" {
		date, err := domain.ParseDate(d)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "date must be YYYY-MM-DD")
			return
		}
		f.Date = &date
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	b, err := h.service.CheckIn(c.Request.Context(), c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// PreviewCheckout godoc
// @Summary      Preview check-out bill
// @Description  Composes charges and totals without changing the booking
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path string          true "Booking ID"
// @Param        body body CheckoutRequest true "Check-out inputs"
// @Router       /bookings/{id}/checkout-preview [post]
func (h *Handler) PreviewCheckout(c *gin.Context) {
	var req CheckoutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	preview, err := h.service.PreviewCheckout(c.Request.Context(), c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// CheckOut godoc
// @Summary      Check out
// @Description  Records the payment and closes the stay in one transaction
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path string          true "Booking ID"
// @Param        body body CheckoutRequest true "Check-out inputs"
// @Router       /bookings/{id}/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.CheckOut(c.Request.Context(), c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Cancel(c *gin.Context) {
	b, err := h.service.Cancel(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) AddCharge(c *gin.Context) {
	var req AddChargeRequest
	if !bindJSON(c, &req) {
		return
	}

	ch, err := h.service.AddCharge(c.Request.Context(), c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ch)
}

func (h *Handler) RemoveCharge(c *gin.Context) {
	err := h.service.RemoveCharge(c.Request.Context(), c.Param("id"), c.Param("chargeId"), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": c.Param("chargeId")})
}

func (h *Handler) UpdateDeposit(c *gin.Context) {
	var req UpdateDepositRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.UpdateDeposit(c.Request.Context(), c.Param("id"), req.Deposit, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListPresets(c *gin.Context) {
	response.Success(c, http.StatusOK, billing.Presets())
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body", err.Error())
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	var (
		ve *ValidationError
		ae *AvailabilityError
	)
	switch {
	case errors.As(err, &ve):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid booking input", ve.Fields)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.As(err, &ae):
		var details any
		if len(ae.Conflicts) > 0 {
			details = ae.Conflicts
		}
		response.ErrorWithDetails(c, http.StatusConflict, "ROOM_NOT_AVAILABLE", ae.Error(), details)
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "ROOM_NOT_AVAILABLE", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		_ = c.Error(err)
		response.Internal(c)
	}
}
