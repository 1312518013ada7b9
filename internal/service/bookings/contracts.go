package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByMonth(ctx context.Context, filter domain.MonthBookingsFilter) ([]*domain.Booking, error)
	GetByStaff(ctx context.Context, staffID string, year int, month time.Month) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id string, reason string) error
}

// ScheduleCache интерфейс кэша расписаний
type ScheduleCache interface {
	InvalidateMonth(ctx context.Context, year int, month time.Month) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
