package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

type Reservation struct {
	ID          string
	ClientID    string
	ServiceID   string
	ProviderID  string
	ScheduledAt time.Time
	TotalAmount decimal.Decimal
	Status      ReservationStatus
}

// NewReservation mints a reservation in PENDING status with a fresh id.
// All fields are required.
func NewReservation(clientID, serviceID, providerID string, scheduledAt time.Time, totalAmount decimal.Decimal) (*Reservation, error) {
	if clientID == "" || serviceID == "" || providerID == "" {
		return nil, fmt.Errorf("%w: client, service and provider ids are required", ErrValidation)
	}
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled time is required", ErrValidation)
	}
	return &Reservation{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		ServiceID:   serviceID,
		ProviderID:  providerID,
		ScheduledAt: scheduledAt,
		TotalAmount: totalAmount,
		Status:      ReservationStatusPending,
	}, nil
}

// Cancel applies the cancellation guard: only PENDING and CONFIRMED
// reservations transition to CANCELLED. Terminal states are left untouched.
// Reports whether the status actually changed.
func (r *Reservation) Cancel() bool {
	if r.Status != ReservationStatusPending && r.Status != ReservationStatusConfirmed {
		return false
	}
	r.Status = ReservationStatusCancelled
	return true
}
