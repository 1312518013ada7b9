package generate_schedule

import (
	"fmt"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

const (
	minYear = 2000
	maxYear = 2100
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Year < minYear || req.Year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minYear, maxYear)
	}

	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	if _, err := domain.ParseWeekday(req.Weekday); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, req.Weekday)
	}

	return nil
}

// useCache можно ли читать кэш для запроса.
// В кэше хранятся только расписания по активным бронированиям.
func useCache(req *Request) bool {
	return !req.IncludeCancelled && !req.ForceRefresh
}
