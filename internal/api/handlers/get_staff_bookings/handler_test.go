package get_staff_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func get(svc BookingService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/staff/{staffId}/bookings", NewHandler(svc, nopLogger{}).Handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandle(t *testing.T) {
	svc := new(mockService)
	svc.On("GetStaffBookings", mock.Anything, &models.GetStaffBookingsRequest{StaffID: "s1", Year: 2024, Month: 3}).
		Return(models.FromDomainBookingList([]*domain.Booking{{ID: "b1"}, {ID: "b2"}}), nil)
	svc.On("GetStaffBookings", mock.Anything, &models.GetStaffBookingsRequest{StaffID: "s1", Year: 2024, Month: 13}).
		Return(nil, bookings.ErrInvalidInput)
	svc.On("GetStaffBookings", mock.Anything, &models.GetStaffBookingsRequest{StaffID: "s2", Year: 2024, Month: 3}).
		Return(nil, bookings.ErrInternal)

	w := get(svc, "/api/v1/staff/s1/bookings?year=2024&month=3")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	assert.Equal(t, http.StatusBadRequest, get(svc, "/api/v1/staff/s1/bookings?year=2024").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/api/v1/staff/s1/bookings?year=2024&month=13").Code)
	assert.Equal(t, http.StatusInternalServerError, get(svc, "/api/v1/staff/s2/bookings?year=2024&month=3").Code)
}
