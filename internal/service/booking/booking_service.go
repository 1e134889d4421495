package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/payment"
	"github.com/zvrva/reservio/internal/repository"
	"github.com/zvrva/reservio/internal/service/reservations"
)

type BookingUseCase interface {
	CompleteReservation(ctx context.Context, input CompleteReservationInput) (*domain.Reservation, error)
	CancelReservationWithRefund(ctx context.Context, reservationID string) error
}

// Processor is the payment surface the facade needs.
type Processor interface {
	ProcessPaymentWith(ctx context.Context, strategy payment.Strategy, reservationID string, amount decimal.Decimal, method domain.PaymentMethod, details string) (*domain.Payment, error)
	RefundPayment(ctx context.Context, paymentID string) error
}

// Cache provides cross-process reservation locks. Optional.
type Cache interface {
	AcquireReservationLock(ctx context.Context, reservationID string, ttl time.Duration) (bool, error)
	ReleaseReservationLock(ctx context.Context, reservationID string) error
}

type CompleteReservationInput struct {
	ClientID       string               `json:"client_id"`
	ServiceID      string               `json:"service_id"`
	ProviderID     string               `json:"provider_id"`
	ScheduledAt    time.Time            `json:"scheduled_at"`
	Method         domain.PaymentMethod `json:"payment_method"`
	PaymentDetails string               `json:"payment_details"`
}

// BookingService composes the orchestrator, payment processor and dispatcher
// into the two end-to-end flows: book-and-pay and cancel-and-refund.
type BookingService struct {
	reservations reservations.ReservationUseCase
	processor    Processor
	payments     repository.PaymentRepository
	strategies   payment.Registry
	notifier     reservations.Notifier
	cache        Cache
	locks        keyedMutex
	lockTTL      time.Duration
	log          *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.lockTTL = ttl
	}
}

func NewBookingService(
	reservationSvc reservations.ReservationUseCase,
	processor Processor,
	payments repository.PaymentRepository,
	strategies payment.Registry,
	notifier reservations.Notifier,
	cache Cache,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		reservations: reservationSvc,
		processor:    processor,
		payments:     payments,
		strategies:   strategies,
		notifier:     notifier,
		cache:        cache,
		lockTTL:      30 * time.Second,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CompleteReservation runs the happy path: create the reservation, charge the
// payment, confirm. The reservation is persisted as CONFIRMED before payment
// runs; a declined payment triggers a compensating cancel, so the row stays
// in storage as CANCELLED rather than being deleted.
func (s *BookingService) CompleteReservation(ctx context.Context, input CompleteReservationInput) (*domain.Reservation, error) {
	strategy, err := s.strategies.Resolve(input.Method)
	if err != nil {
		return nil, err
	}

	reservation, err := s.reservations.Create(ctx, input.ClientID, input.ServiceID, input.ProviderID, input.ScheduledAt)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	pay, err := s.processor.ProcessPaymentWith(ctx, strategy, reservation.ID, reservation.TotalAmount, input.Method, input.PaymentDetails)
	if err != nil {
		return nil, err
	}

	if pay.Status != domain.PaymentStatusCompleted {
		if err := s.reservations.Cancel(ctx, reservation.ID); err != nil {
			s.log.Error("compensating cancel failed",
				zap.String("reservation_id", reservation.ID),
				zap.Error(err))
		}
		return nil, fmt.Errorf("%w: reservation %s has been cancelled", domain.ErrPaymentFailed, reservation.ID)
	}

	s.notifier.SendPaymentConfirmation(ctx, input.ClientID, pay.ID)

	s.log.Info("reservation completed",
		zap.String("reservation_id", reservation.ID),
		zap.String("payment_id", pay.ID))
	return reservation, nil
}

// CancelReservationWithRefund cancels the reservation and refunds the first
// payment referencing it, when one exists.
func (s *BookingService) CancelReservationWithRefund(ctx context.Context, reservationID string) error {
	unlock, err := s.lock(ctx, reservationID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.reservations.Cancel(ctx, reservationID); err != nil {
		return err
	}

	pay, err := s.payments.FindByReservationID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.processor.RefundPayment(ctx, pay.ID)
}

// lock serializes work on one reservation id: always through the in-process
// keyed mutex, additionally through redis when a cache is configured.
func (s *BookingService) lock(ctx context.Context, reservationID string) (func(), error) {
	release := s.locks.lock(reservationID)

	if s.cache == nil {
		return release, nil
	}

	ok, err := s.cache.AcquireReservationLock(ctx, reservationID, s.lockTTL)
	if err != nil {
		release()
		return nil, err
	}
	if !ok {
		release()
		return nil, fmt.Errorf("%w: reservation %s is being processed", domain.ErrInvalidState, reservationID)
	}

	return func() {
		if err := s.cache.ReleaseReservationLock(ctx, reservationID); err != nil {
			s.log.Warn("release reservation lock failed",
				zap.String("reservation_id", reservationID),
				zap.Error(err))
		}
		release()
	}, nil
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

var _ BookingUseCase = (*BookingService)(nil)
