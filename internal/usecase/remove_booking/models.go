package remove_booking

import "github.com/m04kA/SMC-SurgeryScheduler/internal/domain"

// Request модель запроса на удаление бронирования по ключу
type Request struct {
	UserID     string          // ID пользователя (для логирования)
	Date       string          // Дата YYYY-MM-DD
	WeekNumber int             // Номер недели 1-5
	RoomID     string          // ID помещения
	SlotType   domain.SlotType // Тип слота
}
