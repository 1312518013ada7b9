package scheduler

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

var (
	staffUnavailableResolutions = []string{
		"Assign a different staff member",
		"Reschedule the procedure",
		"Check staff availability for alternative times",
	}
	doubleBookingResolutions = []string{
		"Reschedule one of the procedures",
		"Use a different room",
		"Adjust procedure timing",
	}
	staffOverlapResolutions = []string{
		"Assign a different staff member to one of the procedures",
		"Shift one of the procedures to leave a break",
	}
	roomUnavailableResolutions = []string{
		"Move the procedure to a compatible room",
		"Reschedule the procedure",
		"Review the room requirements of the procedure",
	}
	staffingResolutions = []string{
		"Assign additional staff with the required role",
		"Check staff availability for alternative times",
	}
)

// conflictScope место, к которому относится конфликт
type conflictScope struct {
	week      int // индекс недели в сетке
	slotID    string
	bookingID string
}

// scopedConflict конфликт вместе с его местом
type scopedConflict struct {
	scope    conflictScope
	conflict domain.SchedulingConflict
}

// detectConflicts выполняет единственный проход обнаружения конфликтов по занятым слотам.
// Сетка не изменяется: результат - список пар (место, конфликт).
func detectConflicts(weeks []*domain.Week, p *policy) []scopedConflict {
	found := make([]scopedConflict, 0)

	for wi, week := range weeks {
		date := week.ParsedDate()
		booked := bookedSlots(week)

		for _, ref := range booked {
			scope := conflictScope{week: wi, slotID: ref.slot.ID, bookingID: ref.slot.Booking.ID}
			emit := func(c domain.SchedulingConflict) {
				found = append(found, scopedConflict{scope: scope, conflict: c})
			}

			for _, c := range staffAvailabilityConflicts(ref, date, p) {
				emit(c)
			}
			if c, ok := doubleBookingConflict(ref, booked); ok {
				emit(c)
			}
			for _, c := range staffOverlapConflicts(ref, booked, p) {
				emit(c)
			}
			for _, c := range roomConflicts(ref, week) {
				emit(c)
			}
			for _, c := range staffingConflicts(ref, p) {
				emit(c)
			}
		}
	}

	return found
}

// attachConflicts записывает конфликты в слот, бронирование и сводный список недели
func attachConflicts(weeks []*domain.Week, found []scopedConflict) {
	slots := make(map[string]*domain.TimeSlot)
	for _, w := range weeks {
		for _, r := range w.Rooms {
			for _, s := range r.TimeSlots {
				slots[s.ID] = s
			}
		}
	}

	for _, sc := range found {
		if slot, ok := slots[sc.scope.slotID]; ok {
			slot.Conflicts = append(slot.Conflicts, sc.conflict)
			if slot.Booking != nil && slot.Booking.ID == sc.scope.bookingID {
				slot.Booking.Conflicts = append(slot.Booking.Conflicts, sc.conflict)
			}
		}
		if sc.scope.week >= 0 && sc.scope.week < len(weeks) {
			weeks[sc.scope.week].Conflicts = append(weeks[sc.scope.week].Conflicts, sc.conflict)
		}
	}
}

// staffAvailabilityConflicts проверяет каждого назначенного сотрудника по его индивидуальному окну
func staffAvailabilityConflicts(ref slotRef, date time.Time, p *policy) []domain.SchedulingConflict {
	conflicts := make([]domain.SchedulingConflict, 0)
	booking := ref.slot.Booking

	for _, assigned := range booking.AssignedStaff {
		member, ok := p.staffByID[assigned.StaffID]
		if !ok {
			continue
		}

		start, end := assignmentWindow(booking, &assigned)
		if IsAvailable(member, date, start, end) {
			continue
		}

		conflicts = append(conflicts, domain.SchedulingConflict{
			Type:                 domain.ConflictStaffUnavailable,
			Severity:             domain.SeverityHigh,
			Description:          fmt.Sprintf("%s is not available during this time slot", member.Name),
			AffectedElements:     []string{member.ID},
			SuggestedResolutions: append([]string{}, staffUnavailableResolutions...),
		})
	}

	return conflicts
}

// doubleBookingConflict сравнивает бронирование со всеми остальными занятыми слотами недели.
// Один конфликт на слот, независимо от числа пересечений.
func doubleBookingConflict(ref slotRef, booked []slotRef) (domain.SchedulingConflict, bool) {
	booking := ref.slot.Booking
	affected := []string{booking.ID}

	for _, other := range booked {
		if other.slot == ref.slot {
			continue
		}
		ob := other.slot.Booking
		if overlaps(booking.StartTime, booking.EndTime, ob.StartTime, ob.EndTime) {
			affected = append(affected, ob.ID)
		}
	}

	if len(affected) == 1 {
		return domain.SchedulingConflict{}, false
	}

	return domain.SchedulingConflict{
		Type:                 domain.ConflictDoubleBooking,
		Severity:             domain.SeverityCritical,
		Description:          "Multiple procedures scheduled for the same time slot",
		AffectedElements:     affected,
		SuggestedResolutions: append([]string{}, doubleBookingResolutions...),
	}, true
}

// staffOverlapConflicts ищет сотрудников, назначенных на пересекающиеся
// или идущие без перерыва бронирования той же недели
func staffOverlapConflicts(ref slotRef, booked []slotRef, p *policy) []domain.SchedulingConflict {
	conflicts := make([]domain.SchedulingConflict, 0)
	booking := ref.slot.Booking
	breakMinutes := p.constraints.StaffBreakTime

	for i := range booking.AssignedStaff {
		assigned := &booking.AssignedStaff[i]
		start, end := assignmentWindow(booking, assigned)

		overlapping := make([]string, 0)
		tooClose := make([]string, 0)

		for _, other := range booked {
			if other.slot == ref.slot {
				continue
			}
			ob := other.slot.Booking
			for j := range ob.AssignedStaff {
				if ob.AssignedStaff[j].StaffID != assigned.StaffID {
					continue
				}
				oStart, oEnd := assignmentWindow(ob, &ob.AssignedStaff[j])
				switch {
				case overlaps(start, end, oStart, oEnd):
					overlapping = append(overlapping, ob.ID)
				case gapMinutes(start, end, oStart, oEnd) < breakMinutes:
					tooClose = append(tooClose, ob.ID)
				}
				break
			}
		}

		name := assigned.Name
		if member, ok := p.staffByID[assigned.StaffID]; ok {
			name = member.Name
		}

		if len(overlapping) > 0 {
			conflicts = append(conflicts, domain.SchedulingConflict{
				Type:                 domain.ConflictStaffOverlap,
				Severity:             domain.SeverityHigh,
				Description:          fmt.Sprintf("%s is assigned to overlapping procedures", name),
				AffectedElements:     append([]string{assigned.StaffID, booking.ID}, overlapping...),
				SuggestedResolutions: append([]string{}, staffOverlapResolutions...),
			})
		}
		if len(tooClose) > 0 {
			conflicts = append(conflicts, domain.SchedulingConflict{
				Type:                 domain.ConflictStaffOverlap,
				Severity:             domain.SeverityMedium,
				Description:          fmt.Sprintf("%s has less than %d minutes between procedures", name, breakMinutes),
				AffectedElements:     append([]string{assigned.StaffID, booking.ID}, tooClose...),
				SuggestedResolutions: append([]string{}, staffOverlapResolutions...),
			})
		}
	}

	return conflicts
}

// roomConflicts проверяет доступность помещения и его соответствие требованиям процедуры
func roomConflicts(ref slotRef, week *domain.Week) []domain.SchedulingConflict {
	conflicts := make([]domain.SchedulingConflict, 0)
	booking := ref.slot.Booking

	if !ref.room.Availability.IsAvailable {
		description := fmt.Sprintf("%s is unavailable on %s", ref.room.Name, week.Date)
		if ref.room.Availability.UnavailableReason != "" {
			description += ": " + ref.room.Availability.UnavailableReason
		}
		conflicts = append(conflicts, domain.SchedulingConflict{
			Type:                 domain.ConflictRoomUnavailable,
			Severity:             domain.SeverityCritical,
			Description:          description,
			AffectedElements:     []string{ref.room.ID, booking.ID},
			SuggestedResolutions: append([]string{}, roomUnavailableResolutions...),
		})
	}

	if !booking.Procedure.RoomRequirements.AllowsRoom(ref.room) {
		conflicts = append(conflicts, domain.SchedulingConflict{
			Type:                 domain.ConflictRoomUnavailable,
			Severity:             domain.SeverityMedium,
			Description:          fmt.Sprintf("%s does not meet the room requirements of %s", ref.room.Name, booking.Procedure.Name),
			AffectedElements:     []string{ref.room.ID, booking.ID},
			SuggestedResolutions: append([]string{}, roomUnavailableResolutions...),
		})
	}

	return conflicts
}

// staffingConflicts проверяет покрытие требований процедуры к персоналу
// и минимальный состав бригады в операционной
func staffingConflicts(ref slotRef, p *policy) []domain.SchedulingConflict {
	conflicts := make([]domain.SchedulingConflict, 0)
	booking := ref.slot.Booking
	requirements := booking.Procedure.StaffRequirements
	matched := matchRequirements(requirements, len(booking.AssignedStaff), func(r, c int) bool {
		return coversRequirement(&booking.AssignedStaff[c], requirements[r], p)
	})

	for i, req := range requirements {
		if matched[i] < req.Count {
			conflicts = append(conflicts, domain.SchedulingConflict{
				Type:                 domain.ConflictStaffUnavailable,
				Severity:             domain.SeverityMedium,
				Description:          fmt.Sprintf("%s requires %d %s, %d assigned", booking.Procedure.Name, req.Count, req.Role, matched[i]),
				AffectedElements:     []string{booking.ID},
				SuggestedResolutions: append([]string{}, staffingResolutions...),
			})
		}
	}

	minStaff := p.constraints.MinStaffPerSurgery
	if ref.room.Type == domain.RoomOperating && len(booking.AssignedStaff) < minStaff {
		conflicts = append(conflicts, domain.SchedulingConflict{
			Type:                 domain.ConflictStaffUnavailable,
			Severity:             domain.SeverityMedium,
			Description:          fmt.Sprintf("Surgery in %s has %d staff assigned, at least %d required", ref.room.Name, len(booking.AssignedStaff), minStaff),
			AffectedElements:     []string{booking.ID, ref.room.ID},
			SuggestedResolutions: append([]string{}, staffingResolutions...),
		})
	}

	return conflicts
}

// coversRequirement проверяет роль и специализации назначенного сотрудника
func coversRequirement(assigned *domain.AssignedStaff, req domain.StaffRequirement, p *policy) bool {
	if assigned.Role != req.Role {
		return false
	}
	if len(req.Specialties) == 0 {
		return true
	}
	member, ok := p.staffByID[assigned.StaffID]
	if !ok {
		return false
	}
	return member.HasSpecialties(req.Specialties)
}

// assignmentWindow возвращает индивидуальное окно сотрудника, по умолчанию - окно бронирования
func assignmentWindow(booking *domain.Booking, assigned *domain.AssignedStaff) (types.TimeString, types.TimeString) {
	if assigned.StartTime.IsZero() || assigned.EndTime.IsZero() {
		return booking.StartTime, booking.EndTime
	}
	return assigned.StartTime, assigned.EndTime
}

// gapMinutes расстояние в минутах между непересекающимися окнами
func gapMinutes(start1, end1, start2, end2 types.TimeString) int {
	if !end1.IsAfter(start2) {
		return start2.Sub(end1)
	}
	return start1.Sub(end2)
}
