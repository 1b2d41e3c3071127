package user

import (
	"context"
	"regexp"
	"testing"

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

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "role", "name", "email", "phone", "address"}).
				AddRow(1, "client", "Ivan", "ivan@example.com", nil, nil))

		u, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleClient, u.Role)
		assert.Equal(t, "ivan@example.com", *u.Email)
		assert.Nil(t, u.Phone)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_ListIDsByRole(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE role = $1 ORDER BY id ASC`)).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(90).AddRow(91))

	ids, err := repo.ListIDsByRole(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []int64{90, 91}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateContact(t *testing.T) {
	t.Run("only supplied fields", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET email = $1, phone = $2 WHERE id = $3`)).
			WithArgs("new@example.com", "+7999", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateContact(context.Background(), 1, ContactUpdate{
			Email: ptr.Ptr("new@example.com"),
			Phone: ptr.Ptr("+7999"),
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		repo, mock := newRepo(t)
		require.NoError(t, repo.UpdateContact(context.Background(), 1, ContactUpdate{}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
