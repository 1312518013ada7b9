package remove_booking

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	removeBooking "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/remove_booking"
)

// ToUseCaseRequest формирует ключ бронирования из query параметров date, week, roomId, slotType
func ToUseCaseRequest(userID string, query url.Values) (*removeBooking.Request, error) {
	week, err := strconv.Atoi(query.Get("week"))
	if err != nil {
		return nil, fmt.Errorf("week: %w", err)
	}

	return &removeBooking.Request{
		UserID:     userID,
		Date:       query.Get("date"),
		WeekNumber: week,
		RoomID:     query.Get("roomId"),
		SlotType:   domain.SlotType(query.Get("slotType")),
	}, nil
}
