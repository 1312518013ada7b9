package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuth(t *testing.T) {
	var gotUserID string
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b1", nil)
	req.Header.Set(UserIDHeader, "42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "42", gotUserID)

	for _, value := range []string{"", "   "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b1", nil)
		req.Header.Set(UserIDHeader, value)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestGetUserID_Missing(t *testing.T) {
	_, ok := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.Called(method, path, status, duration)
}

func TestMetricsMiddleware(t *testing.T) {
	recorder := new(mockRecorder)
	recorder.On("ObserveHTTPRequest", http.MethodGet, "/api/v1/bookings/{bookingId}", http.StatusNotFound, mock.Anything).Once()
	recorder.On("ObserveHTTPRequest", http.MethodPost, "/api/v1/schedules", http.StatusOK, mock.Anything).Once()

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(recorder))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/schedules", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}).Methods(http.MethodPost)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/schedules", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	recorder.AssertExpectations(t)
}
