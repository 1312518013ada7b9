package scheduler

import (
	"fmt"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// buildLattice строит сетку неделя × помещение × тип слота.
// Доступный персонал слота вычисляется один раз на дату недели и далее не пересчитывается.
func buildLattice(occurrences []weekOccurrence, catalog *Catalog, staff []*domain.StaffMember) []*domain.Week {
	weeks := make([]*domain.Week, 0, len(occurrences))

	for _, occ := range occurrences {
		date := occ.Date.Format(domain.DateFormat)

		week := &domain.Week{
			ID:        fmt.Sprintf("week-%d", occ.Number),
			Number:    occ.Number,
			Name:      fmt.Sprintf("Week %d", occ.Number),
			Date:      date,
			DateLabel: occ.Date.Format(domain.WeekLabelFormat),
			Rooms:     make([]*domain.Room, 0, len(catalog.Rooms)),
			Conflicts: []domain.SchedulingConflict{},
		}

		for i := range catalog.Rooms {
			spec := &catalog.Rooms[i]

			room := &domain.Room{
				ID:           spec.ID,
				Name:         spec.Name,
				Type:         spec.Type,
				Size:         spec.Size,
				Features:     append([]string{}, spec.Features...),
				TimeSlots:    make([]*domain.TimeSlot, 0, len(catalog.Slots)),
				Availability: domain.RoomAvailability{IsAvailable: true},
			}
			if reason, ok := spec.maintenanceOn(date); ok {
				room.Availability = domain.RoomAvailability{
					IsAvailable:          false,
					MaintenanceScheduled: date,
					UnavailableReason:    reason,
				}
			}

			for _, slotSpec := range catalog.Slots {
				room.TimeSlots = append(room.TimeSlots, &domain.TimeSlot{
					ID:                domain.SlotID(occ.Number, spec.ID, slotSpec.Type),
					Type:              slotSpec.Type,
					StartTime:         slotSpec.StartTime,
					EndTime:           slotSpec.EndTime,
					AvailableStaff:    availableStaff(staff, occ.Date, slotSpec.StartTime, slotSpec.EndTime),
					Conflicts:         []domain.SchedulingConflict{},
					SuggestedBookings: []domain.SuggestedBooking{},
				})
			}

			room.Utilization.TotalSlots = len(room.TimeSlots)
			week.Rooms = append(week.Rooms, room)
		}

		weeks = append(weeks, week)
	}

	return weeks
}

// slotRef позиция слота в сетке
type slotRef struct {
	week *domain.Week
	room *domain.Room
	slot *domain.TimeSlot
}

// slotKey ключ поиска слота: неделя, помещение, тип слота
type slotKey struct {
	week     int
	roomID   string
	slotType domain.SlotType
}

// bookedSlots возвращает все занятые слоты недели в порядке каталога
func bookedSlots(week *domain.Week) []slotRef {
	refs := make([]slotRef, 0)
	for _, room := range week.Rooms {
		for _, slot := range room.TimeSlots {
			if slot.IsBooked() {
				refs = append(refs, slotRef{week: week, room: room, slot: slot})
			}
		}
	}
	return refs
}

// cloneLattice глубоко копирует сетку. Сотрудники в AvailableStaff - входные данные и не копируются.
func cloneLattice(weeks []*domain.Week) []*domain.Week {
	out := make([]*domain.Week, len(weeks))
	for i, w := range weeks {
		cw := *w
		cw.Conflicts = append([]domain.SchedulingConflict{}, w.Conflicts...)
		cw.Rooms = make([]*domain.Room, len(w.Rooms))
		for j, r := range w.Rooms {
			cr := *r
			cr.Features = append([]string{}, r.Features...)
			cr.TimeSlots = make([]*domain.TimeSlot, len(r.TimeSlots))
			for k, s := range r.TimeSlots {
				cs := *s
				cs.AvailableStaff = append([]*domain.StaffMember{}, s.AvailableStaff...)
				cs.Conflicts = append([]domain.SchedulingConflict{}, s.Conflicts...)
				cs.SuggestedBookings = append([]domain.SuggestedBooking{}, s.SuggestedBookings...)
				if s.Booking != nil {
					cs.Booking = s.Booking.Clone()
				}
				cr.TimeSlots[k] = &cs
			}
			cw.Rooms[j] = &cr
		}
		out[i] = &cw
	}
	return out
}
