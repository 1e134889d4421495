package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

type ServiceRepository interface {
	Save(ctx context.Context, service *domain.Service) (*domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	FindAll(ctx context.Context) ([]domain.Service, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Service, error)
	FindByProviderID(ctx context.Context, providerID string) ([]domain.Service, error)
}

var serviceHeader = []string{"id", "name", "description", "category", "price", "duration_minutes", "provider_id"}

type CSVServiceRepository struct {
	store *store[domain.Service]
}

func NewServiceRepository(dir string, log *zap.Logger) (*CSVServiceRepository, error) {
	s, err := newStore(dir, "services.csv", serviceHeader, log, encodeService, decodeService)
	if err != nil {
		return nil, err
	}
	return &CSVServiceRepository{store: s}, nil
}

func (r *CSVServiceRepository) Save(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	if err := r.store.save(service.ID, *service); err != nil {
		return nil, err
	}
	return service, nil
}

func (r *CSVServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	return r.store.findByID(id)
}

func (r *CSVServiceRepository) FindAll(ctx context.Context) ([]domain.Service, error) {
	return r.store.findAll(), nil
}

func (r *CSVServiceRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.deleteByID(id)
}

func (r *CSVServiceRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.store.exists(id), nil
}

func (r *CSVServiceRepository) FindByCategory(ctx context.Context, category string) ([]domain.Service, error) {
	return r.store.filter(func(s domain.Service) bool { return s.Category == category }), nil
}

func (r *CSVServiceRepository) FindByProviderID(ctx context.Context, providerID string) ([]domain.Service, error) {
	return r.store.filter(func(s domain.Service) bool { return s.ProviderID == providerID }), nil
}

func encodeService(s domain.Service) []string {
	return []string{
		s.ID,
		s.Name,
		s.Description,
		s.Category,
		s.Price.String(),
		strconv.Itoa(s.DurationMinutes),
		s.ProviderID,
	}
}

func decodeService(row []string) (domain.Service, error) {
	if len(row) < 7 {
		return domain.Service{}, fmt.Errorf("service row has %d fields, want 7", len(row))
	}
	price, err := decimal.NewFromString(row[4])
	if err != nil {
		return domain.Service{}, fmt.Errorf("parse price: %w", err)
	}
	duration, err := strconv.Atoi(row[5])
	if err != nil {
		return domain.Service{}, fmt.Errorf("parse duration: %w", err)
	}
	return domain.Service{
		ID:              row[0],
		Name:            row[1],
		Description:     row[2],
		Category:        row[3],
		Price:           price,
		DurationMinutes: duration,
		ProviderID:      row[6],
	}, nil
}

var _ ServiceRepository = (*CSVServiceRepository)(nil)
