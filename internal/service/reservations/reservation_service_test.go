package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	args := m.Called(ctx, reservation)
	if args.Get(0) == nil {
		// Echo the argument back, as the CSV repository does.
		return reservation, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) FindByClientID(ctx context.Context, clientID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Save(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Service), args.Error(1)
}

func (m *MockServiceRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockServiceRepository) FindByCategory(ctx context.Context, category string) ([]domain.Service, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]domain.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByProviderID(ctx context.Context, providerID string) ([]domain.Service, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]domain.Service), args.Error(1)
}

// RecordingNotifier captures every notification instead of delivering it.
type RecordingNotifier struct {
	sent          []domain.Notification
	confirmations []string
}

func (n *RecordingNotifier) SendNotification(ctx context.Context, userID, message string, channel domain.Channel) *domain.Notification {
	notification := domain.Notification{UserID: userID, Message: message, Channel: channel}
	n.sent = append(n.sent, notification)
	return &notification
}

func (n *RecordingNotifier) SendReservationConfirmation(ctx context.Context, userID, reservationID string) {
	n.confirmations = append(n.confirmations, userID)
}

func (n *RecordingNotifier) SendPaymentConfirmation(ctx context.Context, userID, paymentID string) {
}

func newTestService(t *testing.T) (*ReservationService, *MockReservationRepository, *MockServiceRepository, *RecordingNotifier) {
	t.Helper()
	reservationRepo := &MockReservationRepository{}
	serviceRepo := &MockServiceRepository{}
	notifier := &RecordingNotifier{}
	svc := NewReservationService(reservationRepo, serviceRepo, notifier, zap.NewNop())
	return svc, reservationRepo, serviceRepo, notifier
}

func TestReservationService_Create_Success(t *testing.T) {
	svc, reservationRepo, serviceRepo, notifier := newTestService(t)
	ctx := context.Background()

	price := decimal.RequireFromString("25.00")
	serviceRepo.On("FindByID", ctx, "S001").Return(&domain.Service{
		ID: "S001", Name: "Haircut", Price: price, ProviderID: "P001",
	}, nil).Once()
	reservationRepo.On("Save", ctx, mock.AnythingOfType("*domain.Reservation")).
		Return(nil, nil).Once()

	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	reservation, err := svc.Create(ctx, "C001", "S001", "P001", at)

	assert.NoError(t, err)
	assert.NotEmpty(t, reservation.ID)
	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)
	assert.True(t, reservation.TotalAmount.Equal(price), "amount must be the service price at booking time")
	// Both the client and the provider get a confirmation.
	assert.Equal(t, []string{"C001", "P001"}, notifier.confirmations)

	reservationRepo.AssertExpectations(t)
	serviceRepo.AssertExpectations(t)
}

func TestReservationService_Create_UnknownService(t *testing.T) {
	svc, reservationRepo, serviceRepo, notifier := newTestService(t)
	ctx := context.Background()

	serviceRepo.On("FindByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	reservation, err := svc.Create(ctx, "C001", "missing", "P001", time.Now())

	assert.Nil(t, reservation)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, notifier.confirmations)
	reservationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReservationService_Create_MissingClientID(t *testing.T) {
	svc, reservationRepo, serviceRepo, _ := newTestService(t)
	ctx := context.Background()

	serviceRepo.On("FindByID", ctx, "S001").Return(&domain.Service{ID: "S001"}, nil).Once()

	_, err := svc.Create(ctx, "", "S001", "P001", time.Now())

	assert.True(t, errors.Is(err, domain.ErrValidation))
	reservationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReservationService_Cancel_Transitions(t *testing.T) {
	cases := []struct {
		name       string
		status     domain.ReservationStatus
		wantStatus domain.ReservationStatus
	}{
		{"pending is cancelled", domain.ReservationStatusPending, domain.ReservationStatusCancelled},
		{"confirmed is cancelled", domain.ReservationStatusConfirmed, domain.ReservationStatusCancelled},
		{"cancelled stays cancelled", domain.ReservationStatusCancelled, domain.ReservationStatusCancelled},
		{"completed stays completed", domain.ReservationStatusCompleted, domain.ReservationStatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, reservationRepo, _, notifier := newTestService(t)
			ctx := context.Background()

			reservation := &domain.Reservation{ID: "R1", ClientID: "C001", Status: tc.status}
			reservationRepo.On("FindByID", ctx, "R1").Return(reservation, nil).Once()
			reservationRepo.On("Save", ctx, mock.AnythingOfType("*domain.Reservation")).
				Return(reservation, nil).Once()

			err := svc.Cancel(ctx, "R1")

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, reservation.Status)
			// The cancellation notice goes out exactly once in every case,
			// even when the guard was a no-op. Matches the source behavior.
			assert.Len(t, notifier.sent, 1)
			assert.Equal(t, domain.ChannelEmail, notifier.sent[0].Channel)
			assert.Equal(t, "C001", notifier.sent[0].UserID)
			reservationRepo.AssertExpectations(t)
		})
	}
}

func TestReservationService_Cancel_UnknownIsSilent(t *testing.T) {
	svc, reservationRepo, _, notifier := newTestService(t)
	ctx := context.Background()

	reservationRepo.On("FindByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	err := svc.Cancel(ctx, "missing")

	assert.NoError(t, err)
	assert.Empty(t, notifier.sent)
	reservationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReservationService_Update_Success(t *testing.T) {
	svc, reservationRepo, _, _ := newTestService(t)
	ctx := context.Background()

	amount := decimal.RequireFromString("40.50")
	existing := &domain.Reservation{
		ID:          "R1",
		ClientID:    "C001",
		ServiceID:   "S001",
		ProviderID:  "P001",
		ScheduledAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local),
		TotalAmount: amount,
		Status:      domain.ReservationStatusConfirmed,
	}
	reservationRepo.On("FindByID", ctx, "R1").Return(existing, nil).Once()
	reservationRepo.On("Save", ctx, mock.AnythingOfType("*domain.Reservation")).
		Return(nil, nil).Once()

	newAt := time.Date(2026, 9, 2, 15, 0, 0, 0, time.Local)
	updated, err := svc.Update(ctx, "R1", newAt)

	assert.NoError(t, err)
	assert.Equal(t, "R1", updated.ID)
	assert.Equal(t, newAt, updated.ScheduledAt)
	assert.Equal(t, domain.ReservationStatusConfirmed, updated.Status)
	assert.True(t, updated.TotalAmount.Equal(amount))
	reservationRepo.AssertExpectations(t)
}

func TestReservationService_Update_NotFound(t *testing.T) {
	svc, reservationRepo, _, _ := newTestService(t)
	ctx := context.Background()

	reservationRepo.On("FindByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	_, err := svc.Update(ctx, "missing", time.Now())

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReservationService_Update_CancelledRejected(t *testing.T) {
	svc, reservationRepo, _, _ := newTestService(t)
	ctx := context.Background()

	reservationRepo.On("FindByID", ctx, "R1").Return(&domain.Reservation{
		ID: "R1", Status: domain.ReservationStatusCancelled,
	}, nil).Once()

	_, err := svc.Update(ctx, "R1", time.Now())

	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	reservationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReservationService_ClientHistory(t *testing.T) {
	svc, reservationRepo, _, _ := newTestService(t)
	ctx := context.Background()

	history := []domain.Reservation{{ID: "R1", ClientID: "C001"}, {ID: "R2", ClientID: "C001"}}
	reservationRepo.On("FindByClientID", ctx, "C001").Return(history, nil).Once()

	got, err := svc.ClientHistory(ctx, "C001")

	assert.NoError(t, err)
	assert.Equal(t, history, got)
}
