package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/repository"
)

type CatalogUseCase interface {
	Create(ctx context.Context, input ServiceInput) (*domain.Service, error)
	Update(ctx context.Context, id string, input ServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	ByProvider(ctx context.Context, providerID string) ([]domain.Service, error)
	ByCategory(ctx context.Context, category string) ([]domain.Service, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Service, error)
}

// Cache is an optional read-through cache for the full catalog listing.
type Cache interface {
	GetServices(ctx context.Context) ([]domain.Service, error)
	SetServices(ctx context.Context, services []domain.Service) error
	InvalidateServices(ctx context.Context) error
}

type ServiceInput struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	ProviderID      string          `json:"provider_id"`
}

// SearchFilter fields combine with AND; empty fields match everything.
// The name filter is a case-insensitive substring match.
type SearchFilter struct {
	Category   string
	ProviderID string
	Name       string
}

type CatalogService struct {
	services repository.ServiceRepository
	cache    Cache
	log      *zap.Logger
}

func NewCatalogService(services repository.ServiceRepository, cache Cache, log *zap.Logger) *CatalogService {
	return &CatalogService{services: services, cache: cache, log: log}
}

func (s *CatalogService) Create(ctx context.Context, input ServiceInput) (*domain.Service, error) {
	if input.Name == "" || input.ProviderID == "" {
		return nil, fmt.Errorf("%w: name and provider id are required", domain.ErrValidation)
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		exists, err := s.services.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: service %s already exists", domain.ErrValidation, id)
		}
	}

	service := &domain.Service{
		ID:              id,
		Name:            input.Name,
		Description:     input.Description,
		Category:        input.Category,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		ProviderID:      input.ProviderID,
	}
	saved, err := s.services.Save(ctx, service)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return saved, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, input ServiceInput) (*domain.Service, error) {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return nil, err
	}

	service := &domain.Service{
		ID:              id,
		Name:            input.Name,
		Description:     input.Description,
		Category:        input.Category,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		ProviderID:      input.ProviderID,
	}
	saved, err := s.services.Save(ctx, service)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return saved, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	exists, err := s.services.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: service %s", domain.ErrNotFound, id)
	}
	if err := s.services.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.services.FindByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Service, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetServices(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	services, err := s.services.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetServices(ctx, services); err != nil {
			s.log.Warn("set services cache failed", zap.Error(err))
		}
	}
	return services, nil
}

func (s *CatalogService) ByProvider(ctx context.Context, providerID string) ([]domain.Service, error) {
	return s.services.FindByProviderID(ctx, providerID)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]domain.Service, error) {
	return s.services.FindByCategory(ctx, category)
}

func (s *CatalogService) Search(ctx context.Context, filter SearchFilter) ([]domain.Service, error) {
	services, err := s.services.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Service
	for _, service := range services {
		if filter.Category != "" && service.Category != filter.Category {
			continue
		}
		if filter.ProviderID != "" && service.ProviderID != filter.ProviderID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(service.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, service)
	}
	return out, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateServices(ctx); err != nil {
		s.log.Warn("invalidate services cache failed", zap.Error(err))
	}
}

var _ CatalogUseCase = (*CatalogService)(nil)
