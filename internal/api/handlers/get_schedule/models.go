package get_schedule

import (
	"fmt"
	"net/url"
	"strconv"

	generateSchedule "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/generate_schedule"
)

// ToUseCaseRequest формирует запрос к use case из query параметров
// year, month, weekday (обязательные), includeCancelled, refresh (опциональные)
func ToUseCaseRequest(query url.Values) (*generateSchedule.Request, error) {
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		return nil, fmt.Errorf("year: %w", err)
	}

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		return nil, fmt.Errorf("month: %w", err)
	}

	req := &generateSchedule.Request{
		Year:    year,
		Month:   month,
		Weekday: query.Get("weekday"),
	}

	if v := query.Get("includeCancelled"); v != "" {
		if req.IncludeCancelled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("includeCancelled: %w", err)
		}
	}

	if v := query.Get("refresh"); v != "" {
		if req.ForceRefresh, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("refresh: %w", err)
		}
	}

	return req, nil
}
