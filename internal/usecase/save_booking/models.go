package save_booking

import (
	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// Request модель запроса на сохранение бронирования.
// Бронирование идентифицируется ключом (дата, неделя, помещение, тип слота).
type Request struct {
	UserID      string               // ID пользователя (для логирования)
	Date        string               `validate:"required,datetime=2006-01-02"`
	WeekNumber  int                  `validate:"min=1,max=5"`
	RoomID      string               `validate:"required,max=64"`
	SlotType    domain.SlotType      `validate:"required"`
	ProcedureID string               `validate:"required,max=64"`
	Staff       []StaffAssignment    `validate:"dive"`
	StartTime   types.TimeString     // по умолчанию начало слота
	EndTime     types.TimeString     // по умолчанию конец слота
	Status      domain.BookingStatus // по умолчанию scheduled
	Priority    domain.Priority      // по умолчанию приоритет процедуры
	Notes       *string              `validate:"omitempty,max=1000"`
}

// StaffAssignment назначение сотрудника на бронирование
type StaffAssignment struct {
	StaffID     string           `validate:"required,max=64"`
	StartTime   types.TimeString // по умолчанию начало бронирования
	EndTime     types.TimeString // по умолчанию конец бронирования
	IsConfirmed bool
}

// Response модель ответа с сохраненным бронированием
type Response struct {
	Booking *domain.Booking
}
