package payment

import (
	"errors"
	"net/http"

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
	rg.GET("/payments/:id", h.GetPayment)
	rg.GET("/bookings/:id/payment", h.GetBookingPayment)
}

// GetPayment godoc
// @Summary      Get payment
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Payment ID"
// @Router       /payments/{id} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	h.respond(c, p, err)
}

// GetBookingPayment returns the payment recorded at a booking's check-out.
func (h *Handler) GetBookingPayment(c *gin.Context) {
	p, err := h.service.GetByBookingID(c.Request.Context(), c.Param("id"))
	h.respond(c, p, err)
}

func (h *Handler) respond(c *gin.Context, p any, err error) {
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, p)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Payment not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load payment")
	}
}
