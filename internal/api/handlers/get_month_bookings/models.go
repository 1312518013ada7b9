package get_month_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// year, month (обязательные), weekday, includeCancelled (опциональные)
func ToServiceRequest(query url.Values) (*models.GetMonthBookingsRequest, error) {
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		return nil, fmt.Errorf("year: %w", err)
	}

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		return nil, fmt.Errorf("month: %w", err)
	}

	req := &models.GetMonthBookingsRequest{
		Year:  year,
		Month: month,
	}

	if weekday := query.Get("weekday"); weekday != "" {
		req.Weekday = &weekday
	}

	if v := query.Get("includeCancelled"); v != "" {
		if req.IncludeCancelled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("includeCancelled: %w", err)
		}
	}

	return req, nil
}
