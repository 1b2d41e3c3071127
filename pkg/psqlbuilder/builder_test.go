package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("bookings").
		Where(squirrel.Eq{"user_id": 7}).
		Where(squirrel.Eq{"status": "pending"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE user_id = $1 AND status = $2", query)
	assert.Equal(t, []interface{}{7, "pending"}, args)
}

func TestUpdate(t *testing.T) {
	query, _, err := Update("notifications").Set("is_read", true).Where(squirrel.Eq{"id": 1}).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE notifications SET is_read = $1 WHERE id = $2", query)
}
