package room

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// RegisterRoutes expects rg to be authenticated already. Every staff role may
// read the board and change housekeeping status.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pricing/tiers", h.ListTiers)

	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.GetBoard)
		rooms.GET("/available", h.GetAvailable)
		rooms.PATCH("/:id/status", h.UpdateStatus)
		rooms.GET("/:id/maintenance-reports", h.ListReports)
		rooms.POST("/:id/maintenance-reports", h.ReportMaintenance)
	}
}

// GetBoard godoc
// @Summary      Room board
// @Description  Every room with its display status on a date (default today)
// @Tags         Rooms
// @Security     BearerAuth
// @Produce      json
// @Param        date query string false "YYYY-MM-DD"
// @Router       /rooms [get]
func (h *Handler) GetBoard(c *gin.Context) {
	var date time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	board, err := h.service.Board(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, board)
}

func (h *Handler) GetAvailable(c *gin.Context) {
	checkIn, err1 := domain.ParseDate(c.Query("check_in"))
	checkOut, err2 := domain.ParseDate(c.Query("check_out"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "check_in and check_out must be YYYY-MM-DD")
		return
	}

	rooms, err := h.service.Available(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		return
	}

	room, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

func (h *Handler) ReportMaintenance(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var req MaintenanceReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		return
	}

	rep, err := h.service.ReportMaintenance(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rep)
}

func (h *Handler) ListReports(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	list, err := h.service.Reports(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListTiers(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Tiers())
}

func roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid room id")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, ErrOccupied):
		response.Error(c, http.StatusConflict, "ROOM_OCCUPIED", err.Error())
	default:
		_ = c.Error(err)
		response.Internal(c)
	}
}
