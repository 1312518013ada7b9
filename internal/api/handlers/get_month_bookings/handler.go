package get_month_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings"
)

const (
	msgInvalidParams = "некорректные параметры запроса, ожидаются year и month"
	msgInvalidInput  = "некорректный год, месяц или день недели"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?year=2024&month=1&weekday=Monday&includeCancelled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetMonthBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /bookings - Failed to get bookings: year=%d, month=%d, error=%v",
			serviceReq.Year, serviceReq.Month, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: year=%d, month=%d, count=%d",
		serviceReq.Year, serviceReq.Month, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
