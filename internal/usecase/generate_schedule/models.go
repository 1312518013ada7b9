package generate_schedule

import "github.com/m04kA/SMC-SurgeryScheduler/internal/domain"

// Request модель запроса на генерацию расписания
type Request struct {
	Year             int    // Год
	Month            int    // Месяц 1-12
	Weekday          string // День недели: Monday .. Sunday
	IncludeCancelled bool   // Учитывать отмененные бронирования
	ForceRefresh     bool   // Игнорировать кэш
}

// Response модель ответа с расписанием
type Response struct {
	Schedule  *domain.Schedule
	FromCache bool // Расписание взято из кэша
}
