package generate_schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/schedulecache"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByMonth(ctx context.Context, filter domain.MonthBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockStaffRepo struct{ mock.Mock }

func (m *mockStaffRepo) ListActive(ctx context.Context) ([]*domain.StaffMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StaffMember), args.Error(1)
}

type mockProcedureRepo struct{ mock.Mock }

func (m *mockProcedureRepo) ListActive(ctx context.Context) ([]*domain.Procedure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Procedure), args.Error(1)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) Effective(ctx context.Context) (*domain.SchedulerSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchedulerSettings), args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, year int, month time.Month, weekday string) (*domain.Schedule, error) {
	args := m.Called(ctx, year, month, weekday)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *mockCache) Version(ctx context.Context, year int, month time.Month) (string, error) {
	args := m.Called(ctx, year, month)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, schedule *domain.Schedule, version string) error {
	return m.Called(ctx, schedule, version).Error(0)
}

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Generate(in *scheduler.Input) (*domain.Schedule, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) ObserveScheduleGeneration(source string, duration time.Duration) {
	m.Called(source, duration)
}

func (m *mockMetrics) ObserveConflicts(conflictType, severity string, count int) {
	m.Called(conflictType, severity, count)
}

func (m *mockMetrics) ObserveCache(hit bool) {
	m.Called(hit)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	bookings   *mockBookingRepo
	staff      *mockStaffRepo
	procedures *mockProcedureRepo
	settings   *mockSettings
	cache      *mockCache
	engine     *mockEngine
	metrics    *mockMetrics
}

func newFixture() *fixture {
	return &fixture{
		bookings:   new(mockBookingRepo),
		staff:      new(mockStaffRepo),
		procedures: new(mockProcedureRepo),
		settings:   new(mockSettings),
		cache:      new(mockCache),
		engine:     new(mockEngine),
		metrics:    new(mockMetrics),
	}
}

func (f *fixture) useCase(engine ScheduleEngine) *UseCase {
	uc := NewUseCase(f.bookings, f.staff, f.procedures, f.settings, f.cache, engine, scheduler.DefaultCatalog(), f.metrics, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func (f *fixture) expectSources(ctx context.Context, filter domain.MonthBookingsFilter, bookings []*domain.Booking) {
	f.settings.On("Effective", ctx).Return(&domain.SchedulerSettings{
		ID:           domain.DefaultSettingsID,
		Constraints:  domain.DefaultConstraints(),
		Optimization: domain.DefaultOptimizationSettings(),
	}, nil)
	f.bookings.On("GetByMonth", ctx, filter).Return(bookings, nil)
	f.staff.On("ListActive", ctx).Return([]*domain.StaffMember{}, nil)
	f.procedures.On("ListActive", ctx).Return([]*domain.Procedure{}, nil)
}

func (f *fixture) expectVersion(ctx context.Context, version string) {
	f.cache.On("Version", ctx, 2024, time.January).Return(version, nil)
}

func januaryMondays() domain.MonthBookingsFilter {
	return domain.MonthBookingsFilter{Year: 2024, Month: time.January, DayOfWeek: "Monday"}
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()
	uc := f.useCase(f.engine)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "year too small", req: &Request{Year: 1999, Month: 1, Weekday: "Monday"}, wantErr: ErrInvalidInput},
		{name: "month zero", req: &Request{Year: 2024, Month: 0, Weekday: "Monday"}, wantErr: ErrInvalidInput},
		{name: "month thirteen", req: &Request{Year: 2024, Month: 13, Weekday: "Monday"}, wantErr: ErrInvalidInput},
		{name: "lowercase weekday", req: &Request{Year: 2024, Month: 1, Weekday: "monday"}, wantErr: ErrInvalidWeekday},
		{name: "empty weekday", req: &Request{Year: 2024, Month: 1}, wantErr: ErrInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	f.engine.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestExecute_CacheHit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cached := &domain.Schedule{ID: "schedule-2024-01", Year: 2024, Month: time.January, SelectedDay: "Monday"}

	f.cache.On("Get", ctx, 2024, time.January, "Monday").Return(cached, nil)
	f.metrics.On("ObserveCache", true).Return()
	f.metrics.On("ObserveScheduleGeneration", "cache", mock.Anything).Return()

	resp, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday"})

	require.NoError(t, err)
	assert.True(t, resp.FromCache)
	assert.Same(t, cached, resp.Schedule)
	f.engine.AssertNotCalled(t, "Generate", mock.Anything)
	f.bookings.AssertNotCalled(t, "GetByMonth", mock.Anything, mock.Anything)
	f.metrics.AssertExpectations(t)
}

func TestExecute_CacheMissGeneratesAndStores(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	bookings := []*domain.Booking{{ID: "b1"}}
	generated := &domain.Schedule{
		ID:          "schedule-2024-01",
		Year:        2024,
		Month:       time.January,
		SelectedDay: "Monday",
		Weeks: []*domain.Week{{
			Conflicts: []domain.SchedulingConflict{
				{Type: domain.ConflictDoubleBooking, Severity: domain.SeverityCritical},
				{Type: domain.ConflictDoubleBooking, Severity: domain.SeverityCritical},
				{Type: domain.ConflictStaffOverlap, Severity: domain.SeverityHigh},
			},
		}},
	}

	f.cache.On("Get", ctx, 2024, time.January, "Monday").Return(nil, schedulecache.ErrCacheMiss)
	f.expectSources(ctx, januaryMondays(), bookings)
	f.engine.On("Generate", mock.MatchedBy(func(in *scheduler.Input) bool {
		return in.Year == 2024 && in.Month == time.January && in.Weekday == "Monday" &&
			len(in.Bookings) == 1 && in.Catalog != nil &&
			in.Constraints == domain.DefaultConstraints()
	})).Return(generated, nil)
	f.expectVersion(ctx, "0.3")
	f.cache.On("Set", ctx, generated, "0.3").Return(nil)
	f.metrics.On("ObserveCache", false).Return()
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()
	f.metrics.On("ObserveConflicts", "double_booking", "critical", 2).Return()
	f.metrics.On("ObserveConflicts", "staff_overlap", "high", 1).Return()

	resp, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday"})

	require.NoError(t, err)
	assert.False(t, resp.FromCache)
	assert.Equal(t, now, resp.Schedule.GeneratedAt)
	f.cache.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestExecute_IncludeCancelledBypassesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	filter := januaryMondays()
	filter.IncludeCancelled = true

	f.expectSources(ctx, filter, nil)
	f.engine.On("Generate", mock.Anything).Return(&domain.Schedule{ID: "schedule-2024-01"}, nil)
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()

	resp, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday", IncludeCancelled: true})

	require.NoError(t, err)
	assert.False(t, resp.FromCache)
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Version", mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ForceRefreshOverwritesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	generated := &domain.Schedule{ID: "schedule-2024-01"}

	f.expectSources(ctx, januaryMondays(), nil)
	f.engine.On("Generate", mock.Anything).Return(generated, nil)
	f.expectVersion(ctx, "1.0")
	f.cache.On("Set", ctx, generated, "1.0").Return(errors.New("redis unavailable"))
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()

	resp, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday", ForceRefresh: true})

	require.NoError(t, err)
	assert.Same(t, generated, resp.Schedule)
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertExpectations(t)
}

func TestExecute_CacheErrorFallsBackToEngine(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	generated := &domain.Schedule{ID: "schedule-2024-01"}

	f.cache.On("Get", ctx, 2024, time.January, "Monday").Return(nil, schedulecache.ErrCache)
	f.expectVersion(ctx, "0.0")
	f.cache.On("Set", ctx, generated, "0.0").Return(nil)
	f.expectSources(ctx, januaryMondays(), nil)
	f.engine.On("Generate", mock.Anything).Return(generated, nil)
	f.metrics.On("ObserveCache", false).Return()
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()

	_, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday"})

	require.NoError(t, err)
	f.engine.AssertExpectations(t)
}

func TestExecute_InvalidationDuringGenerationIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	generated := &domain.Schedule{ID: "schedule-2024-01"}

	f.cache.On("Get", ctx, 2024, time.January, "Monday").Return(nil, schedulecache.ErrCacheMiss)
	f.expectVersion(ctx, "0.7")
	f.expectSources(ctx, januaryMondays(), nil)
	f.engine.On("Generate", mock.Anything).Return(generated, nil)
	f.cache.On("Set", ctx, generated, "0.7").Return(schedulecache.ErrVersionChanged)
	f.metrics.On("ObserveCache", false).Return()
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()

	resp, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday"})

	require.NoError(t, err)
	assert.Same(t, generated, resp.Schedule)
	f.cache.AssertExpectations(t)
}

func TestExecute_VersionReadFailureSkipsCacheWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.cache.On("Version", ctx, 2024, time.January).Return("", schedulecache.ErrCache)
	f.expectSources(ctx, januaryMondays(), nil)
	f.engine.On("Generate", mock.Anything).Return(&domain.Schedule{ID: "schedule-2024-01"}, nil)
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()

	_, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday", ForceRefresh: true})

	require.NoError(t, err)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	req := &Request{Year: 2024, Month: 1, Weekday: "Monday", ForceRefresh: true}

	t.Run("settings", func(t *testing.T) {
		f := newFixture()
		f.expectVersion(ctx, "0.0")
		f.settings.On("Effective", ctx).Return(nil, errors.New("db down"))

		_, err := f.useCase(f.engine).Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("bookings", func(t *testing.T) {
		f := newFixture()
		f.expectVersion(ctx, "0.0")
		f.settings.On("Effective", ctx).Return(&domain.SchedulerSettings{}, nil)
		f.bookings.On("GetByMonth", ctx, januaryMondays()).Return(nil, errors.New("db down"))

		_, err := f.useCase(f.engine).Execute(ctx, req)
		assert.ErrorIs(t, err, ErrInternal)
		f.engine.AssertNotCalled(t, "Generate", mock.Anything)
	})
}

func TestExecute_EngineRejectsConfiguration(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.expectVersion(ctx, "0.0")
	f.expectSources(ctx, januaryMondays(), nil)
	f.engine.On("Generate", mock.Anything).Return(nil, scheduler.ErrInvalidConfig)

	_, err := f.useCase(f.engine).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday", ForceRefresh: true})

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExecute_WithRealEngine(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	bookings := []*domain.Booking{{
		ID:         "b1",
		Date:       "2024-01-08",
		DayOfWeek:  "Monday",
		WeekNumber: 2,
		RoomID:     "operating-room-1",
		SlotType:   domain.SlotAM,
		Procedure:  domain.Procedure{ID: "appendectomy", Name: "Appendectomy", DurationMinutes: 90, Priority: domain.PriorityHigh},
		StartTime:  types.MustTimeString("08:00"),
		EndTime:    types.MustTimeString("10:00"),
		Status:     domain.StatusScheduled,
		Priority:   domain.PriorityHigh,
	}}

	f.cache.On("Get", ctx, 2024, time.January, "Monday").Return(nil, schedulecache.ErrCacheMiss)
	f.expectVersion(ctx, "0.0")
	f.cache.On("Set", ctx, mock.Anything, "0.0").Return(nil)
	f.expectSources(ctx, januaryMondays(), bookings)
	f.metrics.On("ObserveCache", false).Return()
	f.metrics.On("ObserveScheduleGeneration", "engine", mock.Anything).Return()
	f.metrics.On("ObserveConflicts", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()

	resp, err := f.useCase(scheduler.NewEngine(nopLogger{}, nil)).Execute(ctx, &Request{Year: 2024, Month: 1, Weekday: "Monday"})

	require.NoError(t, err)
	schedule := resp.Schedule
	assert.Equal(t, "schedule-2024-01", schedule.ID)
	assert.Equal(t, now, schedule.GeneratedAt)
	require.Len(t, schedule.Weeks, 5)

	booked := 0
	for _, w := range schedule.Weeks {
		booked += w.Utilization.BookedSlots
	}
	assert.Equal(t, 1, booked)
}
