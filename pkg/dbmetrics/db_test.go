package dbmetrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/pkg/metrics"
)

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := Wrap(db, nil, "test")

	t.Run("without transaction returns db", func(t *testing.T) {
		ctx := context.Background()
		assert.False(t, IsInTransaction(ctx))
		assert.Same(t, wrapped, GetExecutor(ctx, wrapped))
	})

	t.Run("with transaction returns tx", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := wrapped.BeginTx(context.Background(), nil)
		require.NoError(t, err)

		ctx := WithTx(context.Background(), tx)
		assert.True(t, IsInTransaction(ctx))
		assert.Equal(t, tx, GetExecutor(ctx, wrapped))

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_RecordsMetrics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := metrics.New("test")
	wrapped := Wrap(db, m, "test")

	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings`).WillReturnError(fmt.Errorf("boom"))

	_, err = wrapped.ExecContext(context.Background(), "UPDATE bookings SET status = $1", "confirmed")
	require.NoError(t, err)
	_, err = wrapped.ExecContext(context.Background(), "UPDATE bookings SET status = $1", "confirmed")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("test", "exec")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_RecordPoolStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := metrics.New("test")
	wrapped := Wrap(db, m, "test")

	wrapped.recordPoolStats()

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.DBConnections.WithLabelValues("test", "open")), 0.0)
}
