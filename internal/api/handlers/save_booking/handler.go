package save_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/middleware"
	saveBooking "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/save_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определен"
	msgInvalidInput       = "некорректные данные бронирования"
	msgInvalidBookingDate = "дата бронирования не соответствует номеру недели"
	msgInvalidTimeRange   = "время бронирования выходит за границы слота"
	msgRoomNotFound       = "помещение не найдено"
	msgSlotTypeNotFound   = "тип слота не найден"
	msgProcedureNotFound  = "процедура не найдена"
	msgStaffNotFound      = "сотрудник не найден"
)

type Handler struct {
	useCase SaveBookingUseCase
	logger  Logger
}

func NewHandler(useCase SaveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings
// Создает бронирование или заменяет существующее с тем же ключом
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req SaveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, saveBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, saveBooking.ErrInvalidBookingDate):
			h.logger.Warn("PUT /bookings - Invalid booking date: date=%s, week=%d", req.Date, req.WeekNumber)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, saveBooking.ErrInvalidTimeRange):
			h.logger.Warn("PUT /bookings - Invalid time range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, saveBooking.ErrRoomNotFound):
			h.logger.Warn("PUT /bookings - Room not found: room_id=%s", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, saveBooking.ErrSlotTypeNotFound):
			h.logger.Warn("PUT /bookings - Slot type not found: slot_type=%s", req.SlotType)
			handlers.RespondNotFound(w, msgSlotTypeNotFound)

		case errors.Is(err, saveBooking.ErrProcedureNotFound):
			h.logger.Warn("PUT /bookings - Procedure not found: procedure_id=%s", req.ProcedureID)
			handlers.RespondNotFound(w, msgProcedureNotFound)

		case errors.Is(err, saveBooking.ErrStaffNotFound):
			h.logger.Warn("PUT /bookings - Staff not found: %v", err)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("PUT /bookings - Failed to save booking: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings - Booking saved successfully: booking_id=%s, user_id=%s", result.Booking.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, result.Booking)
}
