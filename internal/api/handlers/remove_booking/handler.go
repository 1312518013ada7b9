package remove_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/middleware"
	removeBooking "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/remove_booking"
)

const (
	msgUnauthorized  = "пользователь не определен"
	msgInvalidParams = "некорректный ключ бронирования, ожидаются date, week, roomId и slotType"
	msgNotFound      = "бронирование не найдено"
)

type Handler struct {
	useCase RemoveBookingUseCase
	logger  Logger
}

func NewHandler(useCase RemoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings?date=2024-01-08&week=2&roomId=operating-room-1&slotType=AM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	useCaseReq, err := ToUseCaseRequest(userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("DELETE /bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	if err := h.useCase.Execute(r.Context(), useCaseReq); err != nil {
		switch {
		case errors.Is(err, removeBooking.ErrInvalidInput):
			h.logger.Warn("DELETE /bookings - Invalid key: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, removeBooking.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings - Booking not found: date=%s, week=%d, room_id=%s, slot_type=%s",
				useCaseReq.Date, useCaseReq.WeekNumber, useCaseReq.RoomID, useCaseReq.SlotType)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /bookings - Failed to remove booking: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings - Booking removed successfully: date=%s, room_id=%s, user_id=%s",
		useCaseReq.Date, useCaseReq.RoomID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
