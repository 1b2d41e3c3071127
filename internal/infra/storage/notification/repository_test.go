package notification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil, "test")), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications (user_id,owner_id,type,title,message,related_id) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, is_read, created_at`)).
		WithArgs(nil, int64(10), "booking", "Новое бронирование", "msg", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_read", "created_at"}).AddRow(1, false, now))

	n := &domain.Notification{
		OwnerID:   ptr.Ptr(int64(10)),
		Type:      domain.NotificationTypeBooking,
		Title:     "Новое бронирование",
		Message:   "msg",
		RelatedID: ptr.Ptr(int64(7)),
	}
	require.NoError(t, repo.Create(context.Background(), n))

	assert.Equal(t, int64(1), n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	columns := []string{"id", "user_id", "owner_id", "type", "title", "message", "related_id", "is_read", "created_at"}
	now := time.Now()

	t.Run("owner sees both recipient columns", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM notifications WHERE (user_id = $1 OR owner_id = $2) AND is_read = $3 ORDER BY created_at DESC, id DESC LIMIT 20`)).
			WithArgs(int64(10), int64(10), false).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(2, nil, 10, "booking", "t", "m", 7, false, now).
				AddRow(1, 10, nil, "system", "t", "m", nil, false, now))

		list, err := repo.List(context.Background(), domain.NotificationFilter{
			UserID:       10,
			IncludeOwner: true,
			UnreadOnly:   true,
			Limit:        20,
		})

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Nil(t, list[0].UserID)
		assert.Equal(t, int64(10), *list[0].OwnerID)
		assert.Equal(t, int64(7), *list[0].RelatedID)
		assert.Nil(t, list[1].RelatedID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("client sees only user column", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns))

		list, err := repo.List(context.Background(), domain.NotificationFilter{UserID: 1})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CountUnread(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = $2`)).
		WithArgs(int64(1), false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUnread(context.Background(), domain.NotificationFilter{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepository_MarkRead(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE notifications SET is_read = $1 WHERE id = $2 AND user_id = $3`)

	t.Run("success", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(query).WithArgs(true, int64(5), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkRead(context.Background(), 5, domain.NotificationFilter{UserID: 1}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign notification", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkRead(context.Background(), 5, domain.NotificationFilter{UserID: 1})
		assert.ErrorIs(t, err, ErrNotificationNotFound)
	})
}

func TestRepository_MarkAllRead(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = $1 WHERE (user_id = $2 OR owner_id = $3) AND is_read = $4`)).
		WithArgs(true, int64(10), int64(10), false).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.MarkAllRead(context.Background(), domain.NotificationFilter{UserID: 10, IncludeOwner: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
