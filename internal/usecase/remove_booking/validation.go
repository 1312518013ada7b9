package remove_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// validateRequest валидирует ключ и возвращает дату бронирования
func validateRequest(req *Request) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	if req.WeekNumber < 1 || req.WeekNumber > 5 {
		return time.Time{}, fmt.Errorf("%w: week must be between 1 and 5", ErrInvalidInput)
	}

	if req.RoomID == "" {
		return time.Time{}, fmt.Errorf("%w: roomId is required", ErrInvalidInput)
	}

	if !req.SlotType.IsValid() {
		return time.Time{}, fmt.Errorf("%w: unknown slot type %q", ErrInvalidInput, req.SlotType)
	}

	return date, nil
}
