package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type completeReservationRequest struct {
	ClientID       string `json:"client_id"`
	ServiceID      string `json:"service_id"`
	ProviderID     string `json:"provider_id"`
	ScheduledAt    string `json:"scheduled_at"`
	PaymentMethod  string `json:"payment_method"`
	PaymentDetails string `json:"payment_details"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.complete)
	router.DELETE("/:id", h.cancelWithRefund)
}

func (h *BookingHandler) complete(c *gin.Context) {
	var req completeReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at"})
		return
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	switch method {
	case domain.PaymentMethodCreditCard, domain.PaymentMethodPayPal, domain.PaymentMethodWallet:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_method"})
		return
	}

	reservation, err := h.service.CompleteReservation(c.Request.Context(), booking.CompleteReservationInput{
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		ProviderID:     req.ProviderID,
		ScheduledAt:    scheduledAt,
		Method:         method,
		PaymentDetails: req.PaymentDetails,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *BookingHandler) cancelWithRefund(c *gin.Context) {
	if err := h.service.CancelReservationWithRefund(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
