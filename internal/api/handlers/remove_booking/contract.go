package remove_booking

import (
	"context"

	removeBooking "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/remove_booking"
)

type RemoveBookingUseCase interface {
	Execute(ctx context.Context, req *removeBooking.Request) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
