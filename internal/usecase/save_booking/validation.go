package save_booking

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

var validate = validator.New()

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !req.SlotType.IsValid() {
		return fmt.Errorf("%w: unknown slot type %q", ErrInvalidInput, req.SlotType)
	}

	if req.Status != "" && !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	if req.Priority != "" && req.Priority.Rank() == 0 {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	seen := make(map[string]struct{}, len(req.Staff))
	for _, a := range req.Staff {
		if _, ok := seen[a.StaffID]; ok {
			return fmt.Errorf("%w: staff %s assigned twice", ErrInvalidInput, a.StaffID)
		}
		seen[a.StaffID] = struct{}{}
	}

	return nil
}

// validateDate проверяет, что дата приходится на неделю с указанным номером.
// Неделя N месяца - это дни с 7(N-1)+1 по 7N.
func validateDate(date string, weekNumber int) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidBookingDate, err)
	}

	if expected := (d.Day()-1)/7 + 1; expected != weekNumber {
		return time.Time{}, fmt.Errorf("%w: %s belongs to week %d, not %d", ErrInvalidBookingDate, date, expected, weekNumber)
	}

	return d, nil
}

// resolveWindow подставляет окно по умолчанию и проверяет, что окно лежит внутри границ
func resolveWindow(start, end, outerStart, outerEnd types.TimeString) (types.TimeString, types.TimeString, error) {
	if start.IsZero() {
		start = outerStart
	}
	if end.IsZero() {
		end = outerEnd
	}

	if !start.IsBefore(end) {
		return start, end, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, start, end)
	}

	if start.IsBefore(outerStart) || end.IsAfter(outerEnd) {
		return start, end, fmt.Errorf("%w: %s-%s is outside %s-%s", ErrInvalidTimeRange, start, end, outerStart, outerEnd)
	}

	return start, end, nil
}

// lookupCatalog находит помещение и форму слота в каталоге
func lookupCatalog(catalog *scheduler.Catalog, roomID string, slotType domain.SlotType) (*scheduler.SlotSpec, error) {
	if _, ok := catalog.Room(roomID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	slot, ok := catalog.Slot(slotType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotTypeNotFound, slotType)
	}

	return slot, nil
}
