package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

type ReservationRepository interface {
	Save(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindByClientID(ctx context.Context, clientID string) ([]domain.Reservation, error)
	FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
}

var reservationHeader = []string{"id", "client_id", "service_id", "provider_id", "scheduled_at", "total_amount", "status"}

type CSVReservationRepository struct {
	store *store[domain.Reservation]
}

func NewReservationRepository(dir string, log *zap.Logger) (*CSVReservationRepository, error) {
	s, err := newStore(dir, "reservations.csv", reservationHeader, log, encodeReservation, decodeReservation)
	if err != nil {
		return nil, err
	}
	return &CSVReservationRepository{store: s}, nil
}

func (r *CSVReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	if err := r.store.save(reservation.ID, *reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *CSVReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.store.findByID(id)
}

func (r *CSVReservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	return r.store.findAll(), nil
}

func (r *CSVReservationRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.deleteByID(id)
}

func (r *CSVReservationRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.store.exists(id), nil
}

func (r *CSVReservationRepository) FindByClientID(ctx context.Context, clientID string) ([]domain.Reservation, error) {
	return r.store.filter(func(res domain.Reservation) bool { return res.ClientID == clientID }), nil
}

func (r *CSVReservationRepository) FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return r.store.filter(func(res domain.Reservation) bool { return res.Status == status }), nil
}

func encodeReservation(res domain.Reservation) []string {
	return []string{
		res.ID,
		res.ClientID,
		res.ServiceID,
		res.ProviderID,
		res.ScheduledAt.Format(TimeLayout),
		res.TotalAmount.String(),
		string(res.Status),
	}
}

func decodeReservation(row []string) (domain.Reservation, error) {
	if len(row) < 7 {
		return domain.Reservation{}, fmt.Errorf("reservation row has %d fields, want 7", len(row))
	}
	scheduledAt, err := time.ParseInLocation(TimeLayout, row[4], time.Local)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("parse scheduled_at: %w", err)
	}
	amount, err := decimal.NewFromString(row[5])
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("parse total_amount: %w", err)
	}
	status := domain.ReservationStatus(row[6])
	switch status {
	case domain.ReservationStatusPending, domain.ReservationStatusConfirmed,
		domain.ReservationStatusCancelled, domain.ReservationStatusCompleted:
	default:
		return domain.Reservation{}, fmt.Errorf("unknown reservation status %q", row[6])
	}
	return domain.Reservation{
		ID:          row[0],
		ClientID:    row[1],
		ServiceID:   row[2],
		ProviderID:  row[3],
		ScheduledAt: scheduledAt,
		TotalAmount: amount,
		Status:      status,
	}, nil
}

var _ ReservationRepository = (*CSVReservationRepository)(nil)
