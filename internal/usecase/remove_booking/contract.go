package remove_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	DeleteByKey(ctx context.Context, key domain.BookingKey) error
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
