package get_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	generateSchedule "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/generate_schedule"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *generateSchedule.Request) (*generateSchedule.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generateSchedule.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_Success(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, &generateSchedule.Request{Year: 2024, Month: 1, Weekday: "Monday", ForceRefresh: true}).
		Return(&generateSchedule.Response{Schedule: &domain.Schedule{
			ID:          "schedule-2024-01",
			Year:        2024,
			Month:       time.January,
			SelectedDay: "Monday",
			Weeks:       []*domain.Week{{ID: "week-1", Number: 1}},
		}}, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules?year=2024&month=1&weekday=Monday&refresh=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "engine", w.Header().Get(ScheduleSourceHeader))

	var body domain.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "schedule-2024-01", body.ID)
	assert.Equal(t, time.January, body.Month)
	assert.Len(t, body.Weeks, 1)
}

func TestHandle_FromCache(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&generateSchedule.Response{Schedule: &domain.Schedule{ID: "schedule-2024-02"}, FromCache: true}, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules?year=2024&month=2&weekday=Friday", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cache", w.Header().Get(ScheduleSourceHeader))
}

func TestHandle_InvalidQuery(t *testing.T) {
	for _, query := range []string{"", "?year=abc&month=1&weekday=Monday", "?year=2024&weekday=Monday", "?year=2024&month=1&weekday=Monday&refresh=maybe"} {
		uc := new(mockUseCase)
		w := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules"+query, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: generateSchedule.ErrInvalidWeekday, status: http.StatusBadRequest},
		{err: generateSchedule.ErrInvalidInput, status: http.StatusBadRequest},
		{err: generateSchedule.ErrInvalidConfig, status: http.StatusUnprocessableEntity},
		{err: generateSchedule.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		uc := new(mockUseCase)
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

		w := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules?year=2024&month=1&weekday=Funday", nil))

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}
