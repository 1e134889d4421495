package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/service/reservations"
)

type ReservationHandler struct {
	service reservations.ReservationUseCase
}

type createReservationRequest struct {
	ClientID    string `json:"client_id"`
	ServiceID   string `json:"service_id"`
	ProviderID  string `json:"provider_id"`
	ScheduledAt string `json:"scheduled_at"`
}

type updateReservationRequest struct {
	ScheduledAt string `json:"scheduled_at"`
}

type reservationResponse struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	ServiceID   string `json:"service_id"`
	ProviderID  string `json:"provider_id"`
	ScheduledAt string `json:"scheduled_at"`
	TotalAmount string `json:"total_amount"`
	Status      string `json:"status"`
}

func NewReservationHandler(service reservations.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.history)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.update)
	router.DELETE("/:id", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at"})
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), req.ClientID, req.ServiceID, req.ProviderID, scheduledAt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) history(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}

	history, err := h.service.ClientHistory(c.Request.Context(), clientID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]reservationResponse, 0, len(history))
	for i := range history {
		out = append(out, toReservationResponse(&history[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) get(c *gin.Context) {
	reservation, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) update(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at"})
		return
	}

	reservation, err := h.service.Update(c.Request.Context(), c.Param("id"), scheduledAt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:          r.ID,
		ClientID:    r.ClientID,
		ServiceID:   r.ServiceID,
		ProviderID:  r.ProviderID,
		ScheduledAt: r.ScheduledAt.Format(time.RFC3339),
		TotalAmount: r.TotalAmount.String(),
		Status:      string(r.Status),
	}
}
