package save_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Upsert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// StaffRepository интерфейс справочника сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
}

// ProcedureRepository интерфейс справочника процедур
type ProcedureRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Procedure, error)
}

// ScheduleCache интерфейс кэша расписаний
type ScheduleCache interface {
	InvalidateMonth(ctx context.Context, year int, month time.Month) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator генерирует идентификаторы новых бронирований
type IDGenerator interface {
	NewID() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
