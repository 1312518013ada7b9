package get_month_bookings

import (
	"context"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings/models"
)

type BookingService interface {
	GetMonthBookings(ctx context.Context, req *models.GetMonthBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
