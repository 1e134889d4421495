package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

// Strategy executes a charge for one payment method. Implementations report
// the outcome through the boolean, not an error.
type Strategy interface {
	Name() string
	Charge(amount decimal.Decimal, details string) bool
}

// The built-in strategies are deterministic simulation stubs: they always
// report success. Swap the registry entry to integrate a real gateway.

type CreditCardStrategy struct {
	log *zap.Logger
}

func NewCreditCardStrategy(log *zap.Logger) *CreditCardStrategy {
	return &CreditCardStrategy{log: log}
}

func (s *CreditCardStrategy) Name() string { return "credit card" }

func (s *CreditCardStrategy) Charge(amount decimal.Decimal, details string) bool {
	s.log.Info("processing credit card payment", zap.String("amount", amount.String()))
	return true
}

type PayPalStrategy struct {
	log *zap.Logger
}

func NewPayPalStrategy(log *zap.Logger) *PayPalStrategy {
	return &PayPalStrategy{log: log}
}

func (s *PayPalStrategy) Name() string { return "paypal" }

func (s *PayPalStrategy) Charge(amount decimal.Decimal, details string) bool {
	s.log.Info("processing paypal payment", zap.String("amount", amount.String()))
	return true
}

type WalletStrategy struct {
	log *zap.Logger
}

func NewWalletStrategy(log *zap.Logger) *WalletStrategy {
	return &WalletStrategy{log: log}
}

func (s *WalletStrategy) Name() string { return "wallet" }

func (s *WalletStrategy) Charge(amount decimal.Decimal, details string) bool {
	s.log.Info("processing wallet payment", zap.String("amount", amount.String()))
	return true
}

// Registry maps payment methods to their strategies, resolved at call time.
type Registry map[domain.PaymentMethod]Strategy

func NewRegistry(log *zap.Logger) Registry {
	return Registry{
		domain.PaymentMethodCreditCard: NewCreditCardStrategy(log),
		domain.PaymentMethodPayPal:     NewPayPalStrategy(log),
		domain.PaymentMethodWallet:     NewWalletStrategy(log),
	}
}

func (r Registry) Resolve(method domain.PaymentMethod) (Strategy, error) {
	s, ok := r[method]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrValidation, method)
	}
	return s, nil
}
