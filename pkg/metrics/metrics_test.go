package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := New("booking-test")

	m.RecordBookingCreated("cart")
	m.RecordBookingCreated("cart")
	m.RecordTransition("pending", "confirmed")
	m.RecordNotifications("owner", 2)
	m.RecordNotifications("owner", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("booking-test", "cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingTransitions.WithLabelValues("booking-test", "pending", "confirmed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsCreated.WithLabelValues("booking-test", "owner")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordBookingCreated("direct")
		m.RecordTransition("pending", "cancelled")
		m.RecordNotifications("customer", 1)
	})
	assert.Equal(t, "", m.ServiceName())
}

func TestMetrics_Handler(t *testing.T) {
	m := New("booking-test")
	m.RecordBookingCreated("direct")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookings_created_total")
}
