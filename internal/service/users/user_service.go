package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/repository"
)

type UserUseCase interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	RateProvider(ctx context.Context, providerID string, rating float64) (*domain.User, error)
	AddProviderService(ctx context.Context, providerID, serviceID string) error
}

type CreateUserInput struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
	Role  domain.Role `json:"role"`
}

type UserService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Create mints the role variant. Users are immutable afterwards, except for
// the provider rating aggregate.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	switch input.Role {
	case domain.RoleClient, domain.RoleProvider, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	if input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	user := &domain.User{
		ID:    id,
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Role:  input.Role,
	}
	return s.users.Save(ctx, user)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.DeleteByID(ctx, id)
}

// RateProvider folds a review rating into the provider's running average.
func (s *UserService) RateProvider(ctx context.Context, providerID string, rating float64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !user.IsProvider() {
		return nil, fmt.Errorf("%w: user %s is not a provider", domain.ErrInvalidState, providerID)
	}

	user.ApplyRating(rating)
	return s.users.Save(ctx, user)
}

// AddProviderService links a catalog service to its provider. Unknown
// providers are ignored; referential integrity is not enforced here.
func (s *UserService) AddProviderService(ctx context.Context, providerID, serviceID string) error {
	user, err := s.users.FindByID(ctx, providerID)
	if err != nil {
		return nil
	}
	if !user.IsProvider() {
		return nil
	}
	user.AddService(serviceID)
	_, err = s.users.Save(ctx, user)
	return err
}

var _ UserUseCase = (*UserService)(nil)
