package scheduler

import (
	"fmt"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// Catalog describes the rooms and slot shapes instantiated for every week
type Catalog struct {
	Rooms []RoomSpec `json:"rooms" toml:"rooms"`
	Slots []SlotSpec `json:"slots" toml:"slots"`
}

// RoomSpec is a catalog room
type RoomSpec struct {
	ID          string            `json:"id" toml:"id"`
	Name        string            `json:"name" toml:"name"`
	Type        domain.RoomType   `json:"type" toml:"type"`
	Size        int               `json:"size" toml:"size"`
	Features    []string          `json:"features" toml:"features"`
	Maintenance []RoomMaintenance `json:"maintenance,omitempty" toml:"maintenance"`
}

// RoomMaintenance takes a room out of service for one date
type RoomMaintenance struct {
	Date   string `json:"date" toml:"date"` // YYYY-MM-DD
	Reason string `json:"reason" toml:"reason"`
}

// SlotSpec is a catalog slot shape
type SlotSpec struct {
	Type      domain.SlotType  `json:"type" toml:"type"`
	StartTime types.TimeString `json:"startTime" toml:"start_time"`
	EndTime   types.TimeString `json:"endTime" toml:"end_time"`
}

// DefaultCatalog returns two operating rooms, one procedure room and one consultation room,
// each with the AM, PM and FULL_DAY slot shapes
func DefaultCatalog() *Catalog {
	return &Catalog{
		Rooms: []RoomSpec{
			{ID: "operating-room-1", Name: "Operating Room 1", Type: domain.RoomOperating, Size: 50, Features: []string{"sterile", "ventilation", "imaging"}},
			{ID: "operating-room-2", Name: "Operating Room 2", Type: domain.RoomOperating, Size: 45, Features: []string{"sterile", "ventilation"}},
			{ID: "procedure-room-1", Name: "Procedure Room 1", Type: domain.RoomProcedure, Size: 30, Features: []string{"sterile"}},
			{ID: "consultation-room-1", Name: "Consultation Room 1", Type: domain.RoomConsultation, Size: 20, Features: []string{}},
		},
		Slots: []SlotSpec{
			{Type: domain.SlotAM, StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("12:00")},
			{Type: domain.SlotPM, StartTime: types.MustTimeString("13:00"), EndTime: types.MustTimeString("17:00")},
			{Type: domain.SlotFullDay, StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("17:00")},
		},
	}
}

// Validate проверяет уникальность идентификаторов и корректность окон слотов
func (c *Catalog) Validate() error {
	roomIDs := make(map[string]struct{}, len(c.Rooms))
	for _, r := range c.Rooms {
		if r.ID == "" {
			return fmt.Errorf("%w: room id is empty", ErrInvalidCatalog)
		}
		if _, ok := roomIDs[r.ID]; ok {
			return fmt.Errorf("%w: duplicate room %q", ErrInvalidCatalog, r.ID)
		}
		roomIDs[r.ID] = struct{}{}

		switch r.Type {
		case domain.RoomOperating, domain.RoomProcedure, domain.RoomConsultation:
		default:
			return fmt.Errorf("%w: room %q has unknown type %q", ErrInvalidCatalog, r.ID, r.Type)
		}
		if r.Size < 0 {
			return fmt.Errorf("%w: room %q has negative size", ErrInvalidCatalog, r.ID)
		}
	}

	slotTypes := make(map[domain.SlotType]struct{}, len(c.Slots))
	for _, s := range c.Slots {
		if !s.Type.IsValid() {
			return fmt.Errorf("%w: unknown slot type %q", ErrInvalidCatalog, s.Type)
		}
		if _, ok := slotTypes[s.Type]; ok {
			return fmt.Errorf("%w: duplicate slot type %q", ErrInvalidCatalog, s.Type)
		}
		slotTypes[s.Type] = struct{}{}

		if s.StartTime.IsZero() || s.EndTime.IsZero() || !s.StartTime.IsBefore(s.EndTime) {
			return fmt.Errorf("%w: slot %s window %q-%q", ErrInvalidCatalog, s.Type, s.StartTime, s.EndTime)
		}
	}

	return nil
}

// maintenanceOn возвращает причину обслуживания помещения на дату
func (r *RoomSpec) maintenanceOn(date string) (string, bool) {
	for _, m := range r.Maintenance {
		if m.Date == date {
			return m.Reason, true
		}
	}
	return "", false
}

// Room возвращает помещение каталога по ID
func (c *Catalog) Room(id string) (*RoomSpec, bool) {
	for i := range c.Rooms {
		if c.Rooms[i].ID == id {
			return &c.Rooms[i], true
		}
	}
	return nil, false
}

// Slot возвращает форму слота каталога по типу
func (c *Catalog) Slot(slotType domain.SlotType) (*SlotSpec, bool) {
	for i := range c.Slots {
		if c.Slots[i].Type == slotType {
			return &c.Slots[i], true
		}
	}
	return nil, false
}
