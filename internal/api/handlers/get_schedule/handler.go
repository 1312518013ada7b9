package get_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/api/handlers"
	generateSchedule "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/generate_schedule"
)

const (
	msgInvalidParams  = "некорректные параметры запроса, ожидаются year, month и weekday"
	msgInvalidWeekday = "некорректный день недели, ожидается Monday..Sunday"
	msgInvalidInput   = "некорректный год или месяц"
	msgInvalidConfig  = "некорректная конфигурация планировщика"
)

// ScheduleSourceHeader заголовок с источником расписания: cache или engine
const ScheduleSourceHeader = "X-Schedule-Source"

type Handler struct {
	useCase GenerateScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GenerateScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedules?year=2024&month=1&weekday=Monday
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /schedules - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSchedule.ErrInvalidWeekday):
			h.logger.Warn("GET /schedules - Invalid weekday: %s", useCaseReq.Weekday)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		case errors.Is(err, generateSchedule.ErrInvalidInput):
			h.logger.Warn("GET /schedules - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, generateSchedule.ErrInvalidConfig):
			h.logger.Error("GET /schedules - Invalid scheduler configuration: %v", err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidConfig)

		default:
			h.logger.Error("GET /schedules - Failed to generate schedule: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	source := "engine"
	if result.FromCache {
		source = "cache"
	}
	w.Header().Set(ScheduleSourceHeader, source)

	h.logger.Info("GET /schedules - Schedule returned: id=%s, weeks=%d, source=%s",
		result.Schedule.ID, len(result.Schedule.Weeks), source)
	handlers.RespondJSON(w, http.StatusOK, result.Schedule)
}
