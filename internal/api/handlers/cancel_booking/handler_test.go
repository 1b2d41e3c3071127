package cancel_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/notifications"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/testutil/memstore"
	transitionBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/transition_booking"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var customer = domain.Actor{ID: 1, Role: domain.RoleClient}

func setup(t *testing.T) (*mux.Router, *memstore.Store, int64) {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()

	b, err := store.Bookings().Create(ctx, &domain.Booking{
		UserID:      1,
		Status:      domain.StatusPending,
		TotalAmount: decimal.NewFromInt(110),
		BookingDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		BookingTime: "10:30",
	})
	require.NoError(t, err)
	require.NoError(t, store.Bookings().CreateItems(ctx, b.ID, []domain.BookingItem{
		{ServiceID: 100, ServiceName: "A", OwnerID: 10, Quantity: 1, Price: decimal.NewFromInt(100)},
	}))

	// выключенные метрики: nil коллектор
	var collector *metrics.Metrics
	fanout := notifications.NewFanout(store.NotificationRepo(), store.Users(), nopLogger{})
	uc := transitionBooking.NewUseCase(store.Bookings(), fanout, collector, store.TxManager(), nopLogger{})

	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPatch)
	return router, store, b.ID
}

func cancel(router *mux.Router, actor domain.Actor, id int64, body string) *httptest.ResponseRecorder {
	var r *http.Request
	path := fmt.Sprintf("/bookings/%d/cancel", id)
	if body == "" {
		r = httptest.NewRequest(http.MethodPatch, path, nil)
	} else {
		r = httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	}
	r = r.WithContext(middleware.WithActor(r.Context(), actor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandler_CustomerCancels(t *testing.T) {
	router, store, id := setup(t)

	w := cancel(router, customer, id, `{"cancellationReason":"планы изменились","expectedStatus":"pending"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp update_booking_status.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.PreviousStatus)
	assert.Equal(t, "cancelled", resp.Status)

	history := store.History(id)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, domain.StatusCancelled, last.Status)
	assert.Equal(t, "планы изменились", *last.Notes)
	assert.Equal(t, int64(1), *last.ChangedBy)

	require.Len(t, store.Notifications(), 1)
	assert.Equal(t, int64(1), *store.Notifications()[0].UserID)

	// повторная отмена: терминальный статус
	assert.Equal(t, http.StatusConflict, cancel(router, customer, id, "").Code)
}

func TestHandler_Rejections(t *testing.T) {
	router, store, id := setup(t)

	assert.Equal(t, http.StatusForbidden, cancel(router, domain.Actor{ID: 2, Role: domain.RoleClient}, id, "").Code)
	assert.Equal(t, http.StatusForbidden, cancel(router, customer, id+100, "").Code)
	assert.Equal(t, http.StatusConflict, cancel(router, customer, id, `{"expectedStatus":"confirmed"}`).Code)
	assert.Equal(t, http.StatusBadRequest, cancel(router, customer, id, `{"reason":"x"}`).Code)

	_, _, history, notified := store.Counts()
	assert.Zero(t, history)
	assert.Zero(t, notified)
}

func TestHandler_ChunkedEmptyBody(t *testing.T) {
	router, store, id := setup(t)

	// chunked transfer: длина неизвестна, тело пустое
	r := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", id), strings.NewReader(""))
	r.ContentLength = -1
	r.TransferEncoding = []string{"chunked"}
	r = r.WithContext(middleware.WithActor(r.Context(), customer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	history := store.History(id)
	require.NotEmpty(t, history)
	assert.Equal(t, domain.StatusCancelled, history[len(history)-1].Status)
}

func TestHandler_ChunkedBodyWithReason(t *testing.T) {
	router, store, id := setup(t)

	r := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", id),
		strings.NewReader(`{"cancellationReason":"заболел"}`))
	r.ContentLength = -1
	r.TransferEncoding = []string{"chunked"}
	r = r.WithContext(middleware.WithActor(r.Context(), customer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	history := store.History(id)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	require.NotNil(t, last.Notes)
	assert.Equal(t, "заболел", *last.Notes)
}
