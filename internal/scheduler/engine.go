package scheduler

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// Engine строит расписание процедур на месяц.
// Не хранит состояния между вызовами и безопасен для параллельного использования.
type Engine struct {
	logger   Logger
	recorder MovesRecorder
	passes   []optimizationPass
}

// NewEngine создает движок. recorder может быть nil.
func NewEngine(logger Logger, recorder MovesRecorder) *Engine {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Engine{
		logger:   logger,
		recorder: recorder,
		passes:   defaultPasses(),
	}
}

// Generate строит расписание:
// календарь → сетка → бронирования → конфликты → оптимизация → предложения → загрузка.
// Ошибка возвращается только при некорректной конфигурации; конфликты - часть результата.
func (e *Engine) Generate(in *Input) (*domain.Schedule, error) {
	// 1. Проверяем конфигурацию
	weekday, catalog, err := validateInput(in)
	if err != nil {
		e.logger.Warn("Scheduler: invalid input: %v", err)
		return nil, err
	}

	p := newPolicy(in)

	// 2. Разбиваем месяц на недели и строим сетку
	occurrences := partitionMonth(in.Year, in.Month, weekday)
	lattice := buildLattice(occurrences, catalog, p.staff)

	// 3. Прикрепляем существующие бронирования
	attached := applyBookings(lattice, in.Bookings, p, e.logger)

	// 4. Единственный проход обнаружения конфликтов
	found := detectConflicts(lattice, p)
	attachConflicts(lattice, found)

	// 5. Оптимизация
	lattice = e.optimize(lattice, p)

	// 6. Предложения и резерв под экстренные случаи
	suggest(lattice, p)

	// 7. Загрузка
	calculateUtilization(lattice, p)

	e.logger.Info("Scheduler: generated %d-%02d %s: weeks=%d, bookings=%d/%d, conflicts=%d",
		in.Year, int(in.Month), in.Weekday, len(lattice), attached, len(in.Bookings), len(found))

	return &domain.Schedule{
		ID:                   fmt.Sprintf("schedule-%d-%02d", in.Year, int(in.Month)),
		Year:                 in.Year,
		Month:                in.Month,
		SelectedDay:          in.Weekday,
		Weeks:                lattice,
		Constraints:          in.Constraints,
		OptimizationSettings: in.Settings,
	}, nil
}

// validateInput проверяет календарь, ограничения, настройки и каталог
func validateInput(in *Input) (weekday time.Weekday, catalog *Catalog, err error) {
	if in == nil {
		return 0, nil, fmt.Errorf("%w: input is nil", ErrInvalidConfig)
	}

	weekday, err = domain.ParseWeekday(in.Weekday)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, in.Weekday)
	}

	if in.Year < 1 || in.Year > 9999 {
		return 0, nil, fmt.Errorf("%w: year %d out of range", ErrInvalidConfig, in.Year)
	}
	if in.Month < 1 || in.Month > 12 {
		return 0, nil, fmt.Errorf("%w: month %d out of range", ErrInvalidConfig, int(in.Month))
	}

	if err := in.Constraints.Validate(); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := in.Settings.Validate(); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	catalog = in.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.Validate(); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return weekday, catalog, nil
}
