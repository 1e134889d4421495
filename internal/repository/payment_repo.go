package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindAll(ctx context.Context) ([]domain.Payment, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	// FindByReservationID returns the first payment referencing the
	// reservation. Uniqueness is not enforced at the storage level.
	FindByReservationID(ctx context.Context, reservationID string) (*domain.Payment, error)
}

var paymentHeader = []string{"id", "reservation_id", "amount", "method", "status", "paid_at"}

type CSVPaymentRepository struct {
	store *store[domain.Payment]
}

func NewPaymentRepository(dir string, log *zap.Logger) (*CSVPaymentRepository, error) {
	s, err := newStore(dir, "payments.csv", paymentHeader, log, encodePayment, decodePayment)
	if err != nil {
		return nil, err
	}
	return &CSVPaymentRepository{store: s}, nil
}

func (r *CSVPaymentRepository) Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if err := r.store.save(payment.ID, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *CSVPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.store.findByID(id)
}

func (r *CSVPaymentRepository) FindAll(ctx context.Context) ([]domain.Payment, error) {
	return r.store.findAll(), nil
}

func (r *CSVPaymentRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.deleteByID(id)
}

func (r *CSVPaymentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.store.exists(id), nil
}

func (r *CSVPaymentRepository) FindByReservationID(ctx context.Context, reservationID string) (*domain.Payment, error) {
	return r.store.findFirst(func(p domain.Payment) bool { return p.ReservationID == reservationID })
}

func encodePayment(p domain.Payment) []string {
	paidAt := ""
	if p.PaidAt != nil {
		paidAt = p.PaidAt.Format(TimeLayout)
	}
	return []string{
		p.ID,
		p.ReservationID,
		p.Amount.String(),
		string(p.Method),
		string(p.Status),
		paidAt,
	}
}

func decodePayment(row []string) (domain.Payment, error) {
	if len(row) < 6 {
		return domain.Payment{}, fmt.Errorf("payment row has %d fields, want 6", len(row))
	}
	amount, err := decimal.NewFromString(row[2])
	if err != nil {
		return domain.Payment{}, fmt.Errorf("parse amount: %w", err)
	}
	status := domain.PaymentStatus(row[4])
	switch status {
	case domain.PaymentStatusPending, domain.PaymentStatusCompleted,
		domain.PaymentStatusFailed, domain.PaymentStatusRefunded:
	default:
		return domain.Payment{}, fmt.Errorf("unknown payment status %q", row[4])
	}
	var paidAt *time.Time
	if row[5] != "" {
		t, err := time.ParseInLocation(TimeLayout, row[5], time.Local)
		if err != nil {
			return domain.Payment{}, fmt.Errorf("parse paid_at: %w", err)
		}
		paidAt = &t
	}
	return domain.Payment{
		ID:            row[0],
		ReservationID: row[1],
		Amount:        amount,
		Method:        domain.PaymentMethod(row[3]),
		Status:        status,
		PaidAt:        paidAt,
	}, nil
}

var _ PaymentRepository = (*CSVPaymentRepository)(nil)
