package update_booking_status

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	transitionBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/transition_booking"
)

type fakeUseCase struct {
	got *transitionBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &transitionBooking.Response{
		BookingID: req.BookingID,
		From:      domain.StatusPending,
		Status:    req.Target,
		UpdatedAt: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var owner = domain.Actor{ID: 10, Role: domain.RoleOwner}

func serve(uc TransitionUseCase, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/status", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPatch)

	r := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	r = r.WithContext(middleware.WithActor(r.Context(), owner))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandler_Confirm(t *testing.T) {
	uc := &fakeUseCase{}

	w := serve(uc, "/bookings/7/status", `{"status":"confirmed","notes":"ok","expectedStatus":"pending"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.BookingID)
	assert.Equal(t, "pending", resp.PreviousStatus)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "2026-10-16T12:00:00Z", resp.UpdatedAt)

	require.NotNil(t, uc.got.ExpectedStatus)
	assert.Equal(t, domain.StatusPending, *uc.got.ExpectedStatus)
	assert.Equal(t, owner, uc.got.Actor)
	assert.Equal(t, "ok", *uc.got.Notes)
}

func TestHandler_BadInput(t *testing.T) {
	uc := &fakeUseCase{}

	w := serve(uc, "/bookings/abc/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(uc, "/bookings/7/status", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, uc.got)
}

func TestRespondTransitionError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{transitionBooking.ErrInvalidInput, http.StatusBadRequest},
		{transitionBooking.ErrPermissionDenied, http.StatusForbidden},
		{fmt.Errorf("%w: completed -> pending", transitionBooking.ErrInvalidTransition), http.StatusConflict},
		{transitionBooking.ErrConcurrencyConflict, http.StatusConflict},
		{transitionBooking.ErrPersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, "/bookings/7/status", `{"status":"confirmed"}`)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
