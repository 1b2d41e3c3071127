package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/access"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/ptr"
)

type fakeRepo struct {
	bookings   map[int64]*domain.Booking
	items      map[int64][]domain.BookingItem
	history    map[int64][]domain.StatusHistoryEntry
	lastFilter domain.OwnerBookingsFilter
	err        error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetItems(_ context.Context, id int64) ([]domain.BookingItem, error) {
	return f.items[id], nil
}

func (f *fakeRepo) GetItemsByBookingIDs(_ context.Context, ids []int64) (map[int64][]domain.BookingItem, error) {
	out := map[int64][]domain.BookingItem{}
	for _, id := range ids {
		out[id] = f.items[id]
	}
	return out, nil
}

func (f *fakeRepo) GetHistory(_ context.Context, id int64) ([]domain.StatusHistoryEntry, error) {
	return f.history[id], nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, userID int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByOwnerWithFilter(_ context.Context, filter domain.OwnerBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	return []*domain.Booking{}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture() (*Service, *fakeRepo) {
	repo := &fakeRepo{
		bookings: map[int64]*domain.Booking{
			7: {
				ID:          7,
				UserID:      1,
				Status:      domain.StatusPending,
				TotalAmount: decimal.NewFromInt(275),
				BookingDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
				BookingTime: "10:30",
			},
		},
		items: map[int64][]domain.BookingItem{
			7: {
				{ServiceID: 100, ServiceName: "A", OwnerID: 10, Quantity: 2, Price: decimal.NewFromInt(100)},
				{ServiceID: 200, ServiceName: "B", OwnerID: 20, Quantity: 1, Price: decimal.NewFromInt(50)},
			},
		},
		history: map[int64][]domain.StatusHistoryEntry{
			7: {{BookingID: 7, Status: domain.StatusPending, Notes: ptr.Ptr("created"), ChangedBy: ptr.Ptr(int64(1))}},
		},
	}
	guard := access.NewGuard(repo, nopLogger{})
	return NewService(repo, guard, nopLogger{}), repo
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture()

	t.Run("customer sees booking with totals", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, domain.Actor{ID: 1, Role: domain.RoleClient}, 7)
		require.NoError(t, err)

		assert.Equal(t, "250.00", resp.Subtotal)
		assert.Equal(t, "25.00", resp.Tax)
		assert.Equal(t, "275.00", resp.TotalAmount)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, "200.00", resp.Items[0].Subtotal)
		require.Len(t, resp.History, 1)
		assert.Equal(t, "pending", resp.History[0].Status)
	})

	t.Run("owner of an item", func(t *testing.T) {
		_, err := svc.GetByID(ctx, domain.Actor{ID: 20, Role: domain.RoleOwner}, 7)
		assert.NoError(t, err)
	})

	t.Run("stranger gets generic denial", func(t *testing.T) {
		_, err := svc.GetByID(ctx, domain.Actor{ID: 2, Role: domain.RoleClient}, 7)
		assert.ErrorIs(t, err, ErrAccessDenied)

		_, err = svc.GetByID(ctx, domain.Actor{ID: 2, Role: domain.RoleClient}, 999)
		assert.ErrorIs(t, err, ErrAccessDenied, "unknown booking looks the same as a foreign one")
	})

	t.Run("admin learns about missing booking", func(t *testing.T) {
		_, err := svc.GetByID(ctx, domain.Actor{ID: 90, Role: domain.RoleAdmin}, 999)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_GetHistory(t *testing.T) {
	svc, _ := newFixture()

	resp, err := svc.GetHistory(context.Background(), domain.Actor{ID: 10, Role: domain.RoleOwner}, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.BookingID)
	assert.Len(t, resp.History, 1)
}

func TestService_GetUserBookings(t *testing.T) {
	ctx := context.Background()
	svc, repo := newFixture()

	resp, err := svc.GetUserBookings(ctx, domain.Actor{ID: 1, Role: domain.RoleClient}, &models.GetUserBookingsRequest{UserID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Len(t, resp.Bookings[0].Items, 2)

	_, err = svc.GetUserBookings(ctx, domain.Actor{ID: 2, Role: domain.RoleClient}, &models.GetUserBookingsRequest{UserID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetUserBookings(ctx, domain.Actor{ID: 90, Role: domain.RoleAdmin}, &models.GetUserBookingsRequest{UserID: 1})
	assert.NoError(t, err)

	_, err = svc.GetUserBookings(ctx, domain.Actor{ID: 1, Role: domain.RoleClient}, &models.GetUserBookingsRequest{UserID: 1, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.err = errors.New("db down")
	_, err = svc.GetUserBookings(ctx, domain.Actor{ID: 1, Role: domain.RoleClient}, &models.GetUserBookingsRequest{UserID: 1})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetOwnerBookings(t *testing.T) {
	ctx := context.Background()
	svc, repo := newFixture()
	from := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	resp, err := svc.GetOwnerBookings(ctx, domain.Actor{ID: 10, Role: domain.RoleOwner}, &models.GetOwnerBookingsRequest{
		OwnerID:   10,
		StartDate: &from,
		EndDate:   &to,
		Status:    ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastFilter.Status)
	assert.Equal(t, int64(10), repo.lastFilter.OwnerID)

	_, err = svc.GetOwnerBookings(ctx, domain.Actor{ID: 10, Role: domain.RoleClient}, &models.GetOwnerBookingsRequest{OwnerID: 10})
	assert.ErrorIs(t, err, ErrAccessDenied, "same id without owner role")

	_, err = svc.GetOwnerBookings(ctx, domain.Actor{ID: 90, Role: domain.RoleAdmin}, &models.GetOwnerBookingsRequest{OwnerID: 10, StartDate: &to, EndDate: &from})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
