package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/repository"
)

type ReservationUseCase interface {
	Create(ctx context.Context, clientID, serviceID, providerID string, scheduledAt time.Time) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID string) error
	Update(ctx context.Context, reservationID string, newScheduledAt time.Time) (*domain.Reservation, error)
	GetByID(ctx context.Context, reservationID string) (*domain.Reservation, error)
	ClientHistory(ctx context.Context, clientID string) ([]domain.Reservation, error)
}

// Notifier is the dispatcher surface the orchestrator needs.
type Notifier interface {
	SendNotification(ctx context.Context, userID, message string, channel domain.Channel) *domain.Notification
	SendReservationConfirmation(ctx context.Context, userID, reservationID string)
	SendPaymentConfirmation(ctx context.Context, userID, paymentID string)
}

type ReservationService struct {
	reservations repository.ReservationRepository
	services     repository.ServiceRepository
	notifier     Notifier
	log          *zap.Logger
}

func NewReservationService(
	reservations repository.ReservationRepository,
	services repository.ServiceRepository,
	notifier Notifier,
	log *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		services:     services,
		notifier:     notifier,
		log:          log,
	}
}

// Create books the service for the client. The service must exist; client and
// provider ids are taken as given. The total amount is the service price at
// booking time, so later price changes never touch existing reservations.
func (s *ReservationService) Create(ctx context.Context, clientID, serviceID, providerID string, scheduledAt time.Time) (*domain.Reservation, error) {
	service, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: service %s", domain.ErrNotFound, serviceID)
		}
		return nil, err
	}

	reservation, err := domain.NewReservation(clientID, serviceID, providerID, scheduledAt, service.Price)
	if err != nil {
		return nil, err
	}
	reservation.Status = domain.ReservationStatusConfirmed

	if _, err := s.reservations.Save(ctx, reservation); err != nil {
		return nil, err
	}

	s.notifier.SendReservationConfirmation(ctx, clientID, reservation.ID)
	s.notifier.SendReservationConfirmation(ctx, providerID, reservation.ID)

	s.log.Info("reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("client_id", clientID),
		zap.String("service_id", serviceID))
	return reservation, nil
}

// Cancel applies the cancellation guard and notifies the client. An unknown
// reservation id is a silent no-op. The cancellation notice goes out even
// when the guard rejects the transition; that matches the historical
// behavior of this flow.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) error {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	changed := reservation.Cancel()
	if _, err := s.reservations.Save(ctx, reservation); err != nil {
		return err
	}

	message := fmt.Sprintf("Your reservation %s has been cancelled.", reservationID)
	s.notifier.SendNotification(ctx, reservation.ClientID, message, domain.ChannelEmail)

	s.log.Info("reservation cancel requested",
		zap.String("reservation_id", reservationID),
		zap.Bool("status_changed", changed))
	return nil
}

// Update replaces the reservation with one scheduled at the new time; every
// other field, status included, carries over.
func (s *ReservationService) Update(ctx context.Context, reservationID string, newScheduledAt time.Time) (*domain.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, reservationID)
		}
		return nil, err
	}

	if reservation.Status == domain.ReservationStatusCancelled {
		return nil, fmt.Errorf("%w: cannot update a cancelled reservation", domain.ErrInvalidState)
	}

	updated := &domain.Reservation{
		ID:          reservation.ID,
		ClientID:    reservation.ClientID,
		ServiceID:   reservation.ServiceID,
		ProviderID:  reservation.ProviderID,
		ScheduledAt: newScheduledAt,
		TotalAmount: reservation.TotalAmount,
		Status:      reservation.Status,
	}
	return s.reservations.Save(ctx, updated)
}

func (s *ReservationService) GetByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.reservations.FindByID(ctx, reservationID)
}

func (s *ReservationService) ClientHistory(ctx context.Context, clientID string) ([]domain.Reservation, error) {
	return s.reservations.FindByClientID(ctx, clientID)
}

var _ ReservationUseCase = (*ReservationService)(nil)
