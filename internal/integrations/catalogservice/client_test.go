package catalogservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func TestClient_GetService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/services/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"owner_id":10,"name":"Massage","price":"100.50","available":true}`))
		case "/internal/services/2":
			w.WriteHeader(http.StatusNotFound)
		case "/internal/services/3":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		case "/internal/services/4":
			_, _ = w.Write([]byte(`{"id":5}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, err := client.GetService(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), svc.OwnerID)
		assert.Equal(t, "Massage", svc.Name)
		assert.True(t, decimal.RequireFromString("100.5").Equal(svc.Price))
		assert.True(t, svc.Available)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetService(ctx, 2)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unexpected status", func(t *testing.T) {
		_, err := client.GetService(ctx, 3)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("mismatched id", func(t *testing.T) {
		_, err := client.GetService(ctx, 4)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("bad body", func(t *testing.T) {
		_, err := client.GetService(ctx, 9)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("unreachable", func(t *testing.T) {
		down := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nopLogger{})
		_, err := down.GetService(ctx, 1)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
