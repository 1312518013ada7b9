package get_staff_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса, ожидаются year и month"
	msgInvalidInput  = "некорректный сотрудник, год или месяц"
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

// Handle GET /api/v1/staff/{staffId}/bookings?year=2024&month=1
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staffId"]

	year, yearErr := strconv.Atoi(r.URL.Query().Get("year"))
	month, monthErr := strconv.Atoi(r.URL.Query().Get("month"))
	if yearErr != nil || monthErr != nil {
		h.logger.Warn("GET /staff/{staffId}/bookings - Invalid parameters: year=%q, month=%q",
			r.URL.Query().Get("year"), r.URL.Query().Get("month"))
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetStaffBookings(r.Context(), &models.GetStaffBookingsRequest{
		StaffID: staffID,
		Year:    year,
		Month:   month,
	})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /staff/{staffId}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /staff/{staffId}/bookings - Failed to get bookings: staff_id=%s, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff/{staffId}/bookings - Bookings retrieved successfully: staff_id=%s, count=%d",
		staffID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
