package domain

import "github.com/shopspring/decimal"

type Service struct {
	ID              string
	Name            string
	Description     string
	Category        string
	Price           decimal.Decimal
	DurationMinutes int
	ProviderID      string
}
