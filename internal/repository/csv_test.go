package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

func TestUserRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)

	user := &domain.User{
		ID:          "P001",
		Name:        "Alice",
		Email:       "alice@example.com",
		Phone:       "+1000000",
		Role:        domain.RoleProvider,
		ServiceIDs:  []string{"S001", "S002"},
		Rating:      4.5,
		ReviewCount: 2,
	}
	_, err = repo.Save(ctx, user)
	require.NoError(t, err)

	// A fresh repository must see exactly what was written.
	reopened, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)

	got, err := reopened.FindByID(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, *user, *got)

	byEmail, err := reopened.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "P001", byEmail.ID)
}

func TestUserRepository_AppendSeedsWithoutRewrite(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, &domain.User{ID: "C001", Name: "Bob", Email: "bob@example.com", Role: domain.RoleClient}))
	require.NoError(t, repo.Append(ctx, &domain.User{ID: "C002", Name: "Eve", Email: "eve@example.com", Role: domain.RoleClient}))

	reopened, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)
	all, err := reopened.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserRepository_MalformedRowIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.csv")
	content := "id,name,email,phone,role,service_ids,rating,review_count\n" +
		"C001,Bob,bob@example.com,,CLIENT,,0,0\n" +
		"C002,Eve,eve@example.com,,WIZARD,,0,0\n" +
		"C003,Kim,kim@example.com,,CLIENT,,not-a-number,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "C001", all[0].ID)
}

func TestUserRepository_UnparsableLineIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.csv")
	// The middle line is not even valid CSV; the collection must still load
	// around it.
	content := "id,name,email,phone,role,service_ids,rating,review_count\n" +
		"C001,Bob,bob@example.com,,CLIENT,,0,0\n" +
		"C002,Ev\"e,broken@example.com,,CLIENT,,0,0\n" +
		"C003,Kim,kim@example.com,,CLIENT,,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "C001", all[0].ID)
	assert.Equal(t, "C003", all[1].ID)
}

func TestServiceRepository_RoundTripAndFinders(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewServiceRepository(dir, zap.NewNop())
	require.NoError(t, err)

	haircut := &domain.Service{
		ID:              "S001",
		Name:            "Haircut",
		Description:     "Classic cut",
		Category:        "beauty",
		Price:           decimal.RequireFromString("25.00"),
		DurationMinutes: 30,
		ProviderID:      "P001",
	}
	massage := &domain.Service{
		ID:              "S002",
		Name:            "Massage",
		Category:        "wellness",
		Price:           decimal.RequireFromString("60.00"),
		DurationMinutes: 60,
		ProviderID:      "P002",
	}
	_, err = repo.Save(ctx, haircut)
	require.NoError(t, err)
	_, err = repo.Save(ctx, massage)
	require.NoError(t, err)

	reopened, err := NewServiceRepository(dir, zap.NewNop())
	require.NoError(t, err)

	got, err := reopened.FindByID(ctx, "S001")
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(haircut.Price), "price survives the round trip exactly")
	assert.Equal(t, 30, got.DurationMinutes)

	beauty, err := reopened.FindByCategory(ctx, "beauty")
	require.NoError(t, err)
	require.Len(t, beauty, 1)
	assert.Equal(t, "S001", beauty[0].ID)

	byProvider, err := reopened.FindByProviderID(ctx, "P002")
	require.NoError(t, err)
	require.Len(t, byProvider, 1)
	assert.Equal(t, "S002", byProvider[0].ID)
}

func TestReservationRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewReservationRepository(dir, zap.NewNop())
	require.NoError(t, err)

	at := time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local)
	reservation := &domain.Reservation{
		ID:          "R1",
		ClientID:    "C001",
		ServiceID:   "S001",
		ProviderID:  "P001",
		ScheduledAt: at,
		TotalAmount: decimal.RequireFromString("25.00"),
		Status:      domain.ReservationStatusConfirmed,
	}
	_, err = repo.Save(ctx, reservation)
	require.NoError(t, err)

	reopened, err := NewReservationRepository(dir, zap.NewNop())
	require.NoError(t, err)

	got, err := reopened.FindByID(ctx, "R1")
	require.NoError(t, err)
	assert.True(t, got.ScheduledAt.Equal(at))
	assert.True(t, got.TotalAmount.Equal(reservation.TotalAmount))
	assert.Equal(t, domain.ReservationStatusConfirmed, got.Status)

	byClient, err := reopened.FindByClientID(ctx, "C001")
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	confirmed, err := reopened.FindByStatus(ctx, domain.ReservationStatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}

func TestReservationRepository_FindByIDUnknown(t *testing.T) {
	repo, err := NewReservationRepository(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReservationRepository_DeleteUnknownIsNoop(t *testing.T) {
	repo, err := NewReservationRepository(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, repo.DeleteByID(context.Background(), "missing"))
}

func TestPaymentRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewPaymentRepository(dir, zap.NewNop())
	require.NoError(t, err)

	paidAt := time.Date(2026, 9, 1, 10, 31, 0, 0, time.Local)
	completed := &domain.Payment{
		ID:            "PAY1",
		ReservationID: "R1",
		Amount:        decimal.RequireFromString("25.00"),
		Method:        domain.PaymentMethodCreditCard,
		Status:        domain.PaymentStatusCompleted,
		PaidAt:        &paidAt,
	}
	failed := &domain.Payment{
		ID:            "PAY2",
		ReservationID: "R2",
		Amount:        decimal.RequireFromString("60.00"),
		Method:        domain.PaymentMethodPayPal,
		Status:        domain.PaymentStatusFailed,
	}
	_, err = repo.Save(ctx, completed)
	require.NoError(t, err)
	_, err = repo.Save(ctx, failed)
	require.NoError(t, err)

	reopened, err := NewPaymentRepository(dir, zap.NewNop())
	require.NoError(t, err)

	got, err := reopened.FindByID(ctx, "PAY1")
	require.NoError(t, err)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.PaidAt.Equal(paidAt))

	gotFailed, err := reopened.FindByID(ctx, "PAY2")
	require.NoError(t, err)
	assert.Nil(t, gotFailed.PaidAt, "a failed payment has no paid_at")

	byReservation, err := reopened.FindByReservationID(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "PAY1", byReservation.ID)

	_, err = reopened.FindByReservationID(ctx, "R3")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestNewStore_CreatesHeaderOnlyFile(t *testing.T) {
	dir := t.TempDir()

	_, err := NewUserRepository(dir, zap.NewNop())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name,email,phone,role,service_ids,rating,review_count\n", string(data))
}

func TestStore_DeletePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewServiceRepository(dir, zap.NewNop())
	require.NoError(t, err)

	_, err = repo.Save(ctx, &domain.Service{ID: "S001", Name: "Haircut", Price: decimal.RequireFromString("25.00")})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByID(ctx, "S001"))

	reopened, err := NewServiceRepository(dir, zap.NewNop())
	require.NoError(t, err)
	ok, err := reopened.ExistsByID(ctx, "S001")
	require.NoError(t, err)
	assert.False(t, ok)
}
