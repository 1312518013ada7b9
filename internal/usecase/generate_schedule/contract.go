package generate_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByMonth(ctx context.Context, filter domain.MonthBookingsFilter) ([]*domain.Booking, error)
}

// StaffRepository интерфейс справочника сотрудников
type StaffRepository interface {
	ListActive(ctx context.Context) ([]*domain.StaffMember, error)
}

// ProcedureRepository интерфейс справочника процедур
type ProcedureRepository interface {
	ListActive(ctx context.Context) ([]*domain.Procedure, error)
}

// SettingsProvider возвращает действующие ограничения и настройки оптимизации
type SettingsProvider interface {
	Effective(ctx context.Context) (*domain.SchedulerSettings, error)
}

// ScheduleCache интерфейс кэша готовых расписаний.
// Version читается до загрузки данных; Set не записывает расписание,
// если месяц был инвалидирован после чтения версии.
type ScheduleCache interface {
	Get(ctx context.Context, year int, month time.Month, weekday string) (*domain.Schedule, error)
	Version(ctx context.Context, year int, month time.Month) (string, error)
	Set(ctx context.Context, schedule *domain.Schedule, version string) error
}

// ScheduleEngine движок генерации расписания
type ScheduleEngine interface {
	Generate(in *scheduler.Input) (*domain.Schedule, error)
}

// MetricsRecorder принимает метрики генерации
type MetricsRecorder interface {
	ObserveScheduleGeneration(source string, duration time.Duration)
	ObserveConflicts(conflictType, severity string, count int)
	ObserveCache(hit bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) ObserveScheduleGeneration(string, time.Duration) {}
func (noopMetrics) ObserveConflicts(string, string, int)            {}
func (noopMetrics) ObserveCache(bool)                               {}
