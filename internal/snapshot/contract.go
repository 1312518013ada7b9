package snapshot

import (
	"context"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

type StaffRepository interface {
	Upsert(ctx context.Context, member *domain.StaffMember) error
}

type ProcedureRepository interface {
	Upsert(ctx context.Context, p *domain.Procedure) error
}

type BookingRepository interface {
	Upsert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

type ScheduleCache interface {
	InvalidateAll(ctx context.Context) error
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
