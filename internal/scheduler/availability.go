package scheduler

import (
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// IsAvailable отвечает, доступен ли сотрудник в окне [start, end) на указанную дату.
//
// Исключение на дату имеет приоритет:
// - isAvailable=false - недоступен в любое окно
// - isAvailable=true со своими часами - окно должно лежать внутри часов исключения
// - isAvailable=true без часов - доступен
// Без исключения окно должно лежать внутри рабочего окна сотрудника.
// Принадлежность даты к рабочим дням не проверяется.
func IsAvailable(staff *domain.StaffMember, date time.Time, start, end types.TimeString) bool {
	if staff == nil || start.IsZero() || end.IsZero() || end.IsBefore(start) {
		return false
	}

	if exception, ok := staff.ExceptionFor(date); ok {
		if !exception.IsAvailable {
			return false
		}
		if !exception.HasHours() {
			return true
		}
		return contains(*exception.StartTime, *exception.EndTime, start, end)
	}

	return contains(staff.Availability.StartTime, staff.Availability.EndTime, start, end)
}

// AvailableHours возвращает количество рабочих часов сотрудника на дату
func AvailableHours(staff *domain.StaffMember, date time.Time) float64 {
	if staff == nil {
		return 0
	}

	start, end := staff.Availability.StartTime, staff.Availability.EndTime
	if exception, ok := staff.ExceptionFor(date); ok {
		if !exception.IsAvailable {
			return 0
		}
		if exception.HasHours() {
			start, end = *exception.StartTime, *exception.EndTime
		}
	}

	if start.IsZero() || end.IsZero() || !start.IsBefore(end) {
		return 0
	}
	return float64(end.Sub(start)) / 60
}

// availableStaff фильтрует сотрудников, доступных в окне слота
func availableStaff(staff []*domain.StaffMember, date time.Time, start, end types.TimeString) []*domain.StaffMember {
	result := make([]*domain.StaffMember, 0, len(staff))
	for _, s := range staff {
		if IsAvailable(s, date, start, end) {
			result = append(result, s)
		}
	}
	return result
}

// contains проверяет, что окно [start, end) лежит внутри [outerStart, outerEnd)
func contains(outerStart, outerEnd, start, end types.TimeString) bool {
	if outerStart.IsZero() || outerEnd.IsZero() {
		return false
	}
	return !start.IsBefore(outerStart) && !end.IsAfter(outerEnd)
}

// overlaps строгое пересечение интервалов: граничащие окна не пересекаются
func overlaps(start1, end1, start2, end2 types.TimeString) bool {
	return start1.IsBefore(end2) && start2.IsBefore(end1)
}
