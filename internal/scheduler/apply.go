package scheduler

import (
	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// applyBookings прикрепляет бронирования к слотам по ключу (неделя, помещение, тип слота).
// Бронирование без подходящего слота отбрасывается без ошибки.
// Слот заполняется не более одного раза: побеждает первое бронирование.
// Возвращает количество прикрепленных бронирований.
func applyBookings(weeks []*domain.Week, bookings []*domain.Booking, p *policy, logger Logger) int {
	index := make(map[slotKey]*domain.TimeSlot)
	for _, w := range weeks {
		for _, r := range w.Rooms {
			for _, s := range r.TimeSlots {
				index[slotKey{week: w.Number, roomID: r.ID, slotType: s.Type}] = s
			}
		}
	}

	procedures := make(map[string]*domain.Procedure, len(p.procedures))
	for _, proc := range p.procedures {
		procedures[proc.ID] = proc
	}

	seen := make(map[string]struct{}, len(bookings))
	attached := 0

	for _, b := range bookings {
		if b == nil {
			continue
		}

		slot, ok := index[slotKey{week: b.WeekNumber, roomID: b.RoomID, slotType: b.SlotType}]
		if !ok {
			logger.Warn("Scheduler: booking %s dropped: no slot for week=%d, room=%s, slot=%s", b.ID, b.WeekNumber, b.RoomID, b.SlotType)
			continue
		}
		if _, dup := seen[b.ID]; dup && b.ID != "" {
			logger.Warn("Scheduler: booking %s dropped: duplicate id", b.ID)
			continue
		}
		if slot.IsBooked() {
			logger.Warn("Scheduler: booking %s dropped: slot %s already holds booking %s", b.ID, slot.ID, slot.Booking.ID)
			continue
		}

		booking := b.Clone()

		// Окно бронирования по умолчанию совпадает с окном слота
		if booking.StartTime.IsZero() || booking.EndTime.IsZero() {
			booking.StartTime = slot.StartTime
			booking.EndTime = slot.EndTime
		}

		// Процедура, переданная только идентификатором, берется из справочника
		if booking.Procedure.Name == "" {
			if proc, ok := procedures[booking.Procedure.ID]; ok {
				booking.Procedure = *proc
			}
		}
		if booking.Priority == "" {
			booking.Priority = booking.Procedure.Priority
		}
		booking.Conflicts = nil

		slot.Booking = booking
		seen[b.ID] = struct{}{}
		attached++
	}

	return attached
}
