package generate_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/schedulecache"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/metrics"
)

// UseCase use case для генерации месячного расписания процедур
type UseCase struct {
	bookingRepo   BookingRepository
	staffRepo     StaffRepository
	procedureRepo ProcedureRepository
	settings      SettingsProvider
	cache         ScheduleCache
	engine        ScheduleEngine
	catalog       *scheduler.Catalog
	metrics       MetricsRecorder
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case. recorder может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	procedureRepo ProcedureRepository,
	settings SettingsProvider,
	cache ScheduleCache,
	engine ScheduleEngine,
	catalog *scheduler.Catalog,
	recorder MetricsRecorder,
	logger Logger,
) *UseCase {
	if recorder == nil {
		recorder = noopMetrics{}
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		staffRepo:     staffRepo,
		procedureRepo: procedureRepo,
		settings:      settings,
		cache:         cache,
		engine:        engine,
		catalog:       catalog,
		metrics:       recorder,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case генерации расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSchedule: year=%d, month=%d, weekday=%s, includeCancelled=%t, forceRefresh=%t",
		req.Year, req.Month, req.Weekday, req.IncludeCancelled, req.ForceRefresh)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSchedule: validation failed: %v", err)
		return nil, err
	}

	started := uc.timeProvider.Now()
	month := time.Month(req.Month)

	// 2. Пробуем взять готовое расписание из кэша
	if useCache(req) {
		cached, err := uc.cache.Get(ctx, req.Year, month, req.Weekday)
		switch {
		case err == nil:
			uc.metrics.ObserveCache(true)
			uc.metrics.ObserveScheduleGeneration(metrics.SourceCache, uc.timeProvider.Now().Sub(started))
			uc.logger.Info("GenerateSchedule: served %s from cache", cached.ID)
			return &Response{Schedule: cached, FromCache: true}, nil
		case errors.Is(err, schedulecache.ErrCacheMiss):
			uc.metrics.ObserveCache(false)
		default:
			// Недоступность кэша не мешает генерации
			uc.metrics.ObserveCache(false)
			uc.logger.Warn("GenerateSchedule: cache read failed: %v", err)
		}
	}

	// Версию кэша фиксируем до чтения данных: инвалидация во время генерации
	// не даст записать устаревшее расписание
	cacheVersion, storeInCache := "", !req.IncludeCancelled
	if storeInCache {
		version, err := uc.cache.Version(ctx, req.Year, month)
		if err != nil {
			uc.logger.Warn("GenerateSchedule: cache version read failed, result will not be cached: %v", err)
			storeInCache = false
		}
		cacheVersion = version
	}

	// 3. Получаем действующие настройки
	settings, err := uc.settings.Effective(ctx)
	if err != nil {
		uc.logger.Error("GenerateSchedule: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 4. Получаем бронирования месяца по выбранному дню недели
	bookings, err := uc.bookingRepo.GetByMonth(ctx, domain.MonthBookingsFilter{
		Year:             req.Year,
		Month:            month,
		DayOfWeek:        req.Weekday,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		uc.logger.Error("GenerateSchedule: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Получаем справочники
	staff, err := uc.staffRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GenerateSchedule: failed to get staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	procedures, err := uc.procedureRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GenerateSchedule: failed to get procedures: %v", err)
		return nil, fmt.Errorf("%w: failed to get procedures: %v", ErrInternal, err)
	}

	// 6. Запускаем движок
	schedule, err := uc.engine.Generate(&scheduler.Input{
		Year:        req.Year,
		Month:       month,
		Weekday:     req.Weekday,
		Bookings:    bookings,
		Staff:       staff,
		Procedures:  procedures,
		Constraints: settings.Constraints,
		Settings:    settings.Optimization,
		Catalog:     uc.catalog,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidWeekday):
			return nil, fmt.Errorf("%w: %v", ErrInvalidWeekday, err)
		case errors.Is(err, scheduler.ErrInvalidConfig), errors.Is(err, scheduler.ErrInvalidCatalog):
			uc.logger.Error("GenerateSchedule: engine rejected configuration: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		default:
			uc.logger.Error("GenerateSchedule: engine failed: %v", err)
			return nil, fmt.Errorf("%w: engine failed: %v", ErrInternal, err)
		}
	}
	schedule.GeneratedAt = uc.timeProvider.Now().UTC()

	// 7. Метрики
	uc.metrics.ObserveScheduleGeneration(metrics.SourceEngine, uc.timeProvider.Now().Sub(started))
	for key, count := range countConflicts(schedule) {
		uc.metrics.ObserveConflicts(string(key.conflictType), string(key.severity), count)
	}

	// 8. Сохраняем в кэш (ForceRefresh перезаписывает запись)
	if storeInCache {
		err := uc.cache.Set(ctx, schedule, cacheVersion)
		switch {
		case errors.Is(err, schedulecache.ErrVersionChanged):
			uc.logger.Info("GenerateSchedule: bookings changed during generation, %s not cached", schedule.ID)
		case err != nil:
			uc.logger.Warn("GenerateSchedule: cache write failed: %v", err)
		}
	}

	uc.logger.Info("GenerateSchedule: generated %s with %d weeks, %d bookings, %d conflicts",
		schedule.ID, len(schedule.Weeks), len(bookings), schedule.ConflictCount())

	return &Response{Schedule: schedule}, nil
}

type conflictKey struct {
	conflictType domain.ConflictType
	severity     domain.Severity
}

// countConflicts считает конфликты недель по типу и серьезности
func countConflicts(schedule *domain.Schedule) map[conflictKey]int {
	counts := make(map[conflictKey]int)
	for _, w := range schedule.Weeks {
		for _, c := range w.Conflicts {
			counts[conflictKey{conflictType: c.Type, severity: c.Severity}]++
		}
	}
	return counts
}
