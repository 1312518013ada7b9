package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
)

// Snapshot выгрузка данных клиники: сотрудники, процедуры и бронирования.
// Используется для офлайн генерации расписания и первичного наполнения БД.
type Snapshot struct {
	Staff                []*domain.StaffMember        `json:"staff"`
	Procedures           []*domain.Procedure          `json:"procedures"`
	Bookings             []*domain.Booking            `json:"bookings"`
	Constraints          *domain.Constraints          `json:"constraints,omitempty"`
	OptimizationSettings *domain.OptimizationSettings `json:"optimizationSettings,omitempty"`
}

// Load читает снимок из файла
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode разбирает и проверяет снимок
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidSnapshot, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate проверяет уникальность идентификаторов и формат дат бронирований
func (s *Snapshot) Validate() error {
	staffIDs := make(map[string]struct{}, len(s.Staff))
	for i, m := range s.Staff {
		if m == nil || m.ID == "" {
			return fmt.Errorf("%w: staff[%d] has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := staffIDs[m.ID]; dup {
			return fmt.Errorf("%w: duplicate staff id %q", ErrInvalidSnapshot, m.ID)
		}
		staffIDs[m.ID] = struct{}{}
	}

	procedureIDs := make(map[string]struct{}, len(s.Procedures))
	for i, p := range s.Procedures {
		if p == nil || p.ID == "" {
			return fmt.Errorf("%w: procedures[%d] has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := procedureIDs[p.ID]; dup {
			return fmt.Errorf("%w: duplicate procedure id %q", ErrInvalidSnapshot, p.ID)
		}
		procedureIDs[p.ID] = struct{}{}
	}

	for i, b := range s.Bookings {
		if b == nil {
			return fmt.Errorf("%w: bookings[%d] is empty", ErrInvalidSnapshot, i)
		}
		if _, ok := b.ParsedDate(); !ok {
			return fmt.Errorf("%w: bookings[%d] has invalid date %q", ErrInvalidSnapshot, i, b.Date)
		}
		if b.RoomID == "" || !b.SlotType.IsValid() {
			return fmt.Errorf("%w: bookings[%d] has no room or slot type", ErrInvalidSnapshot, i)
		}
	}

	if s.Constraints != nil {
		if err := s.Constraints.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}
	if s.OptimizationSettings != nil {
		if err := s.OptimizationSettings.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}
	return nil
}

// Input собирает вход движка. Ограничения и настройки снимка имеют приоритет над переданными.
func (s *Snapshot) Input(
	year int,
	month time.Month,
	weekday string,
	constraints domain.Constraints,
	settings domain.OptimizationSettings,
	catalog *scheduler.Catalog,
) *scheduler.Input {
	if s.Constraints != nil {
		constraints = *s.Constraints
	}
	if s.OptimizationSettings != nil {
		settings = *s.OptimizationSettings
	}

	return &scheduler.Input{
		Year:        year,
		Month:       month,
		Weekday:     weekday,
		Bookings:    s.Bookings,
		Staff:       s.Staff,
		Procedures:  s.Procedures,
		Constraints: constraints,
		Settings:    settings,
		Catalog:     catalog,
	}
}
