package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/repository"
)

// Processor charges payments through the currently selected strategy and
// persists the resulting payment record.
type Processor struct {
	payments repository.PaymentRepository

	mu       sync.Mutex
	strategy Strategy
}

func NewProcessor(payments repository.PaymentRepository) *Processor {
	return &Processor{payments: payments}
}

func (p *Processor) SetStrategy(s Strategy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategy = s
}

// ProcessPayment charges the amount through the selected strategy. The
// payment is persisted and returned whatever the outcome; a declined charge
// is reported through the FAILED status, not an error.
func (p *Processor) ProcessPayment(ctx context.Context, reservationID string, amount decimal.Decimal, method domain.PaymentMethod, details string) (*domain.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chargeLocked(ctx, reservationID, amount, method, details)
}

// ProcessPaymentWith selects the strategy and charges under one critical
// section, so concurrent callers with different strategies can never charge
// through each other's.
func (p *Processor) ProcessPaymentWith(ctx context.Context, strategy Strategy, reservationID string, amount decimal.Decimal, method domain.PaymentMethod, details string) (*domain.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategy = strategy
	return p.chargeLocked(ctx, reservationID, amount, method, details)
}

func (p *Processor) chargeLocked(ctx context.Context, reservationID string, amount decimal.Decimal, method domain.PaymentMethod, details string) (*domain.Payment, error) {
	if p.strategy == nil {
		return nil, fmt.Errorf("%w: no payment strategy selected", domain.ErrInvalidState)
	}

	payment := &domain.Payment{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		Amount:        amount,
		Method:        method,
		Status:        domain.PaymentStatusPending,
	}

	if p.strategy.Charge(amount, details) {
		now := time.Now()
		payment.Status = domain.PaymentStatusCompleted
		payment.PaidAt = &now
	} else {
		payment.Status = domain.PaymentStatusFailed
	}

	return p.payments.Save(ctx, payment)
}

// RefundPayment marks the payment REFUNDED. The prior status is not checked,
// so refunding twice is idempotent; an unknown id is a silent no-op.
func (p *Processor) RefundPayment(ctx context.Context, paymentID string) error {
	payment, err := p.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	payment.Status = domain.PaymentStatusRefunded
	_, err = p.payments.Save(ctx, payment)
	return err
}
