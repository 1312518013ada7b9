package snapshot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Result количество записанных объектов
type Result struct {
	Staff      int
	Procedures int
	Bookings   int
}

// Importer записывает снимок в хранилище одной транзакцией
type Importer struct {
	staffRepo     StaffRepository
	procedureRepo ProcedureRepository
	bookingRepo   BookingRepository
	cache         ScheduleCache
	txManager     TransactionManager
	logger        Logger
}

func NewImporter(
	staffRepo StaffRepository,
	procedureRepo ProcedureRepository,
	bookingRepo BookingRepository,
	cache ScheduleCache,
	txManager TransactionManager,
	logger Logger,
) *Importer {
	return &Importer{
		staffRepo:     staffRepo,
		procedureRepo: procedureRepo,
		bookingRepo:   bookingRepo,
		cache:         cache,
		txManager:     txManager,
		logger:        logger,
	}
}

// Import записывает сотрудников, процедуры и бронирования.
// Бронирование без id получает новый UUID; существующее по ключу слота заменяется.
func (i *Importer) Import(ctx context.Context, s *Snapshot) (*Result, error) {
	i.logger.Info("Import: staff=%d, procedures=%d, bookings=%d", len(s.Staff), len(s.Procedures), len(s.Bookings))

	result := &Result{}
	err := i.txManager.Do(ctx, func(ctx context.Context) error {
		for _, m := range s.Staff {
			if err := i.staffRepo.Upsert(ctx, m); err != nil {
				return fmt.Errorf("staff %s: %w", m.ID, err)
			}
			result.Staff++
		}

		for _, p := range s.Procedures {
			if err := i.procedureRepo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("procedure %s: %w", p.ID, err)
			}
			result.Procedures++
		}

		for _, b := range s.Bookings {
			booking := b.Clone()
			if booking.ID == "" {
				booking.ID = uuid.NewString()
			}
			if date, ok := booking.ParsedDate(); ok && booking.DayOfWeek == "" {
				booking.DayOfWeek = date.Weekday().String()
			}
			if _, err := i.bookingRepo.Upsert(ctx, booking); err != nil {
				return fmt.Errorf("booking %s: %w", booking.ID, err)
			}
			result.Bookings++
		}
		return nil
	})
	if err != nil {
		i.logger.Error("Import: failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}

	// Все закэшированные расписания могли устареть
	if err := i.cache.InvalidateAll(ctx); err != nil {
		i.logger.Warn("Import: failed to invalidate schedule cache: %v", err)
	}

	i.logger.Info("Import: done, staff=%d, procedures=%d, bookings=%d", result.Staff, result.Procedures, result.Bookings)
	return result, nil
}
