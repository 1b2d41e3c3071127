package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	notificationRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/notification"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/ptr"
)

type memoryRepo struct {
	items    []domain.Notification
	failAt   int // Create с этим порядковым номером (с 1) вернёт ошибку
	lastList domain.NotificationFilter
	err      error
}

func (m *memoryRepo) Create(_ context.Context, n *domain.Notification) error {
	if m.failAt > 0 && len(m.items)+1 == m.failAt {
		return errors.New("insert failed")
	}
	n.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *n)
	return nil
}

func (m *memoryRepo) List(_ context.Context, filter domain.NotificationFilter) ([]domain.Notification, error) {
	m.lastList = filter
	return m.items, m.err
}

func (m *memoryRepo) CountUnread(context.Context, domain.NotificationFilter) (int, error) {
	return len(m.items), m.err
}

func (m *memoryRepo) MarkRead(_ context.Context, id int64, _ domain.NotificationFilter) error {
	if m.err != nil {
		return m.err
	}
	if id > int64(len(m.items)) {
		return notificationRepo.ErrNotificationNotFound
	}
	return nil
}

func (m *memoryRepo) MarkAllRead(context.Context, domain.NotificationFilter) (int64, error) {
	return int64(len(m.items)), m.err
}

type admins []int64

func (a admins) ListIDsByRole(context.Context, domain.Role) ([]int64, error) {
	return a, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:          7,
		UserID:      1,
		Status:      domain.StatusPending,
		TotalAmount: decimal.NewFromInt(275),
		BookingDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		BookingTime: "10:30",
		Items: []domain.BookingItem{
			{ServiceID: 100, ServiceName: "A", OwnerID: 10, Quantity: 2, Price: decimal.NewFromInt(100)},
			{ServiceID: 200, ServiceName: "B", OwnerID: 20, Quantity: 1, Price: decimal.NewFromInt(50)},
		},
	}
}

func TestFanout_NotifyCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("customer, two owners and one admin", func(t *testing.T) {
		repo := &memoryRepo{}
		fanout := NewFanout(repo, admins{90}, nopLogger{})

		result, err := fanout.NotifyCreated(ctx, sampleBooking(), "Ivan")
		require.NoError(t, err)

		assert.Equal(t, FanoutResult{Customer: 1, Owners: 2, Admins: 1}, result)
		require.Len(t, repo.items, 4)

		assert.Equal(t, int64(1), *repo.items[0].UserID)
		assert.Nil(t, repo.items[0].OwnerID)
		assert.Equal(t, int64(10), *repo.items[1].OwnerID)
		assert.Contains(t, repo.items[1].Message, "A x2")
		assert.NotContains(t, repo.items[1].Message, "B x1")
		assert.Equal(t, int64(20), *repo.items[2].OwnerID)
		assert.Equal(t, int64(90), *repo.items[3].UserID)
		assert.Contains(t, repo.items[3].Message, "Ivan")

		for _, n := range repo.items {
			assert.True(t, n.HasSingleRecipient())
			assert.Equal(t, domain.NotificationTypeBooking, n.Type)
			assert.Equal(t, int64(7), *n.RelatedID)
		}
	})

	t.Run("owners deduplicated", func(t *testing.T) {
		repo := &memoryRepo{}
		b := sampleBooking()
		b.Items = append(b.Items, domain.BookingItem{ServiceID: 300, ServiceName: "C", OwnerID: 10, Quantity: 1})

		result, err := NewFanout(repo, admins{}, nopLogger{}).NotifyCreated(ctx, b, "Ivan")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Owners)
		assert.Equal(t, 3, result.Total())
	})

	t.Run("admin who is the customer gets one message", func(t *testing.T) {
		repo := &memoryRepo{}
		result, err := NewFanout(repo, admins{1, 90}, nopLogger{}).NotifyCreated(ctx, sampleBooking(), "Ivan")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Admins)
		assert.Len(t, repo.items, 4)
	})

	t.Run("persistence failure surfaces", func(t *testing.T) {
		repo := &memoryRepo{failAt: 3}
		_, err := NewFanout(repo, admins{90}, nopLogger{}).NotifyCreated(ctx, sampleBooking(), "Ivan")
		assert.ErrorIs(t, err, ErrPersistence)
	})
}

func TestFanout_NotifyTransition(t *testing.T) {
	repo := &memoryRepo{}
	b := sampleBooking()
	b.Status = domain.StatusCancelled

	require.NoError(t, NewFanout(repo, admins{90}, nopLogger{}).NotifyTransition(context.Background(), b, ptr.Ptr("  нет мест ")))

	require.Len(t, repo.items, 1)
	n := repo.items[0]
	assert.Equal(t, int64(1), *n.UserID)
	assert.Contains(t, n.Message, "отменено")
	assert.Contains(t, n.Message, "Комментарий: нет мест")
}

func TestService(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{ID: 10, Role: domain.RoleOwner}
	client := domain.Actor{ID: 1, Role: domain.RoleClient}

	t.Run("list applies defaults and owner visibility", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := NewService(repo, nopLogger{})

		_, err := svc.List(ctx, owner, true, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.NotificationFilter{UserID: 10, IncludeOwner: true, UnreadOnly: true, Limit: domain.DefaultNotificationLimit}, repo.lastList)

		_, err = svc.List(ctx, client, false, 5)
		require.NoError(t, err)
		assert.False(t, repo.lastList.IncludeOwner)
	})

	t.Run("limit bounds", func(t *testing.T) {
		svc := NewService(&memoryRepo{}, nopLogger{})
		_, err := svc.List(ctx, client, false, 101)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.List(ctx, client, false, -1)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("mark read", func(t *testing.T) {
		repo := &memoryRepo{items: []domain.Notification{{ID: 1}}}
		svc := NewService(repo, nopLogger{})

		require.NoError(t, svc.MarkRead(ctx, client, 1))
		assert.ErrorIs(t, svc.MarkRead(ctx, client, 5), ErrNotificationNotFound)
		assert.ErrorIs(t, svc.MarkRead(ctx, client, 0), ErrInvalidInput)
	})

	t.Run("storage errors are persistence errors", func(t *testing.T) {
		svc := NewService(&memoryRepo{err: errors.New("db down")}, nopLogger{})

		_, err := svc.UnreadCount(ctx, client)
		assert.ErrorIs(t, err, ErrPersistence)
		_, err = svc.MarkAllRead(ctx, client)
		assert.ErrorIs(t, err, ErrPersistence)
		assert.ErrorIs(t, svc.MarkRead(ctx, client, 1), ErrPersistence)
	})
}
