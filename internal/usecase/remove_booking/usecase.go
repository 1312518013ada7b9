package remove_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/booking"
)

// UseCase use case для удаления бронирования по ключу
type UseCase struct {
	bookingRepo BookingRepository
	cache       ScheduleCache
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, cache ScheduleCache, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Execute выполняет use case удаления бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("RemoveBooking: user=%s, date=%s, week=%d, room=%s, slot=%s",
		req.UserID, req.Date, req.WeekNumber, req.RoomID, req.SlotType)

	// 1. Валидация ключа
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RemoveBooking: validation failed: %v", err)
		return err
	}

	// 2. Удаляем запись
	key := domain.BookingKey{
		Date:       req.Date,
		WeekNumber: req.WeekNumber,
		RoomID:     req.RoomID,
		SlotType:   req.SlotType,
	}
	if err := uc.bookingRepo.DeleteByKey(ctx, key); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RemoveBooking: no booking for key %+v", key)
			return ErrBookingNotFound
		}
		uc.logger.Error("RemoveBooking: failed to delete booking: %v", err)
		return fmt.Errorf("%w: failed to delete booking: %v", ErrInternal, err)
	}

	// 3. Сбрасываем кэш расписаний месяца
	if err := uc.cache.InvalidateMonth(ctx, date.Year(), date.Month()); err != nil {
		uc.logger.Warn("RemoveBooking: failed to invalidate schedule cache: %v", err)
	}

	uc.logger.Info("RemoveBooking: successfully removed booking %s/%d/%s/%s", req.Date, req.WeekNumber, req.RoomID, req.SlotType)
	return nil
}
