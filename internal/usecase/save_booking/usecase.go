package save_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	procedureRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/procedure"
	staffRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
)

// UseCase use case для создания или замены бронирования по ключу
type UseCase struct {
	bookingRepo   BookingRepository
	staffRepo     StaffRepository
	procedureRepo ProcedureRepository
	cache         ScheduleCache
	txManager     TransactionManager
	catalog       *scheduler.Catalog
	idGenerator   IDGenerator
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	procedureRepo ProcedureRepository,
	cache ScheduleCache,
	txManager TransactionManager,
	catalog *scheduler.Catalog,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		staffRepo:     staffRepo,
		procedureRepo: procedureRepo,
		cache:         cache,
		txManager:     txManager,
		catalog:       catalog,
		idGenerator:   UUIDGenerator{},
		logger:        logger,
	}
}

// Execute выполняет use case сохранения бронирования.
// Запись по тому же ключу заменяется, идентификатор существующей записи сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SaveBooking: user=%s, date=%s, week=%d, room=%s, slot=%s, procedure=%s",
		req.UserID, req.Date, req.WeekNumber, req.RoomID, req.SlotType, req.ProcedureID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SaveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата должна попадать в указанную неделю
	date, err := validateDate(req.Date, req.WeekNumber)
	if err != nil {
		uc.logger.Warn("SaveBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Помещение и слот должны быть в каталоге
	slot, err := lookupCatalog(uc.catalog, req.RoomID, req.SlotType)
	if err != nil {
		uc.logger.Warn("SaveBooking: catalog lookup failed: %v", err)
		return nil, err
	}

	// 4. Окно бронирования внутри окна слота
	start, end, err := resolveWindow(req.StartTime, req.EndTime, slot.StartTime, slot.EndTime)
	if err != nil {
		uc.logger.Warn("SaveBooking: booking window validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем процедуру
	procedure, err := uc.procedureRepo.GetByID(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			uc.logger.Warn("SaveBooking: procedure id=%s not found", req.ProcedureID)
			return nil, fmt.Errorf("%w: %s", ErrProcedureNotFound, req.ProcedureID)
		}
		uc.logger.Error("SaveBooking: failed to get procedure id=%s: %v", req.ProcedureID, err)
		return nil, fmt.Errorf("%w: failed to get procedure: %v", ErrInternal, err)
	}

	// 6. Получаем сотрудников и строим назначения
	assigned := make([]domain.AssignedStaff, 0, len(req.Staff))
	for _, a := range req.Staff {
		member, err := uc.staffRepo.GetByID(ctx, a.StaffID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("SaveBooking: staff id=%s not found", a.StaffID)
				return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, a.StaffID)
			}
			uc.logger.Error("SaveBooking: failed to get staff id=%s: %v", a.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		staffStart, staffEnd, err := resolveWindow(a.StartTime, a.EndTime, start, end)
		if err != nil {
			uc.logger.Warn("SaveBooking: staff id=%s window validation failed: %v", a.StaffID, err)
			return nil, err
		}

		assigned = append(assigned, domain.AssignedStaff{
			StaffID:     member.ID,
			Role:        member.Role,
			Name:        member.Name,
			StartTime:   staffStart,
			EndTime:     staffEnd,
			IsConfirmed: a.IsConfirmed,
		})
	}

	booking := &domain.Booking{
		ID:            uc.idGenerator.NewID(),
		Date:          req.Date,
		DayOfWeek:     date.Weekday().String(),
		WeekNumber:    req.WeekNumber,
		RoomID:        req.RoomID,
		SlotType:      req.SlotType,
		Procedure:     *procedure,
		AssignedStaff: assigned,
		StartTime:     start,
		EndTime:       end,
		Status:        req.Status,
		Priority:      req.Priority,
		Notes:         req.Notes,
	}
	if booking.Status == "" {
		booking.Status = domain.StatusScheduled
	}
	if booking.Priority == "" {
		booking.Priority = procedure.Priority
	}

	// 7. Сохраняем в сериализуемой транзакции
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		saved, err := uc.bookingRepo.Upsert(txCtx, booking)
		if err != nil {
			uc.logger.Error("SaveBooking: failed to upsert booking: %v", err)
			return fmt.Errorf("%w: failed to save booking: %v", ErrInternal, err)
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 8. Сбрасываем кэш расписаний месяца
	if err := uc.cache.InvalidateMonth(ctx, date.Year(), date.Month()); err != nil {
		uc.logger.Warn("SaveBooking: failed to invalidate schedule cache: %v", err)
	}

	uc.logger.Info("SaveBooking: successfully saved booking id=%s", result.ID)
	return &Response{Booking: result}, nil
}
