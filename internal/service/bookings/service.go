package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings/models"
)

const (
	minYear = 2000
	maxYear = 2100
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	cache       ScheduleCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	cache ScheduleCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	if id == "" {
		return nil, fmt.Errorf("%w: empty booking id", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return booking, nil
}

// GetMonthBookings получает бронирования месяца
// Опционально фильтрует по дню недели и включает отмененные
func (s *Service) GetMonthBookings(ctx context.Context, req *models.GetMonthBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetMonthBookings: fetching bookings for %04d-%02d", req.Year, req.Month)
	if req.Weekday != nil {
		logMsg += fmt.Sprintf(", weekday=%s", *req.Weekday)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if err := validateMonth(req.Year, req.Month); err != nil {
		s.logger.Warn("GetMonthBookings: %v", err)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetMonthBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByMonth(ctx, filter)
	if err != nil {
		s.logger.Error("GetMonthBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetMonthBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMonthBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// GetStaffBookings получает бронирования месяца, в которые назначен сотрудник
func (s *Service) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStaffBookings: fetching bookings for staff=%s, %04d-%02d", req.StaffID, req.Year, req.Month)

	if req.StaffID == "" {
		return nil, fmt.Errorf("%w: empty staff id", ErrInvalidInput)
	}
	if err := validateMonth(req.Year, req.Month); err != nil {
		s.logger.Warn("GetStaffBookings: %v", err)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByStaff(ctx, req.StaffID, req.Year, time.Month(req.Month))
	if err != nil {
		s.logger.Error("GetStaffBookings: repository error for staff=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffBookings: successfully fetched %d bookings for staff=%s", len(bookings), req.StaffID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и сбрасывает кэш расписаний его месяца.
// Завершенные и уже отмененные бронирования отменить нельзя.
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить бронирование
	if booking.Status == domain.StatusCancelled || booking.Status == domain.StatusCompleted {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if date, ok := booking.ParsedDate(); ok {
		if err := s.cache.InvalidateMonth(ctx, date.Year(), date.Month()); err != nil {
			s.logger.Warn("Cancel: failed to invalidate schedule cache for %s: %v", booking.Date, err)
		}
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return nil
}

// validateMonth проверяет год и месяц запроса
func validateMonth(year, month int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minYear, maxYear)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	return nil
}
