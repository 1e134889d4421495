package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Append persists a single user without rewriting the collection.
	// Bootstrap seeding only.
	Append(ctx context.Context, user *domain.User) error
}

var userHeader = []string{"id", "name", "email", "phone", "role", "service_ids", "rating", "review_count"}

type CSVUserRepository struct {
	store *store[domain.User]
}

func NewUserRepository(dir string, log *zap.Logger) (*CSVUserRepository, error) {
	s, err := newStore(dir, "users.csv", userHeader, log, encodeUser, decodeUser)
	if err != nil {
		return nil, err
	}
	return &CSVUserRepository{store: s}, nil
}

func (r *CSVUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.store.save(user.ID, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *CSVUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.store.findByID(id)
}

func (r *CSVUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.store.findAll(), nil
}

func (r *CSVUserRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.deleteByID(id)
}

func (r *CSVUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.store.exists(id), nil
}

func (r *CSVUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.store.findFirst(func(u domain.User) bool { return u.Email == email })
}

func (r *CSVUserRepository) Append(ctx context.Context, user *domain.User) error {
	return r.store.appendOne(user.ID, *user)
}

func encodeUser(u domain.User) []string {
	return []string{
		u.ID,
		u.Name,
		u.Email,
		u.Phone,
		string(u.Role),
		strings.Join(u.ServiceIDs, ";"),
		strconv.FormatFloat(u.Rating, 'f', -1, 64),
		strconv.Itoa(u.ReviewCount),
	}
}

func decodeUser(row []string) (domain.User, error) {
	if len(row) < 8 {
		return domain.User{}, fmt.Errorf("user row has %d fields, want 8", len(row))
	}
	role := domain.Role(row[4])
	switch role {
	case domain.RoleClient, domain.RoleProvider, domain.RoleAdmin:
	default:
		return domain.User{}, fmt.Errorf("unknown role %q", row[4])
	}
	rating, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return domain.User{}, fmt.Errorf("parse rating: %w", err)
	}
	reviews, err := strconv.Atoi(row[7])
	if err != nil {
		return domain.User{}, fmt.Errorf("parse review count: %w", err)
	}
	var serviceIDs []string
	if row[5] != "" {
		serviceIDs = strings.Split(row[5], ";")
	}
	return domain.User{
		ID:          row[0],
		Name:        row[1],
		Email:       row[2],
		Phone:       row[3],
		Role:        role,
		ServiceIDs:  serviceIDs,
		Rating:      rating,
		ReviewCount: reviews,
	}, nil
}

var _ UserRepository = (*CSVUserRepository)(nil)
