package scheduler

import (
	"fmt"
	"math"
	"sort"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// suggest резервирует часть свободных слотов недели под экстренные случаи
// и предлагает процедуры для остальных свободных слотов.
// Предложения не связывают: бронирования не создаются.
func suggest(lattice []*domain.Week, p *policy) {
	fraction := math.Max(p.settings.EmergencySlotReservation, p.constraints.EmergencyBuffer)

	for _, week := range lattice {
		free := make([]slotRef, 0)
		total := 0
		for _, room := range week.Rooms {
			for _, slot := range room.TimeSlots {
				total++
				if !slot.IsBooked() && !roomBusyInWindow(room, slot) {
					free = append(free, slotRef{week: week, room: room, slot: slot})
				}
			}
		}

		// 1. Резервируем последние свободные слоты
		reserved := int(math.Ceil(float64(total) * fraction))
		if reserved > len(free) {
			reserved = len(free)
		}
		for _, ref := range free[len(free)-reserved:] {
			ref.slot.ReservedForEmergency = true
		}

		// 2. Предлагаем процедуры для остальных
		for _, ref := range free[:len(free)-reserved] {
			ref.slot.SuggestedBookings = suggestionsFor(ref, week, p)
		}
	}
}

// roomBusyInWindow проверяет, занято ли окно слота другим бронированием помещения
func roomBusyInWindow(room *domain.Room, slot *domain.TimeSlot) bool {
	for _, s := range room.TimeSlots {
		if s.Booking == nil {
			continue
		}
		if overlaps(s.Booking.StartTime, s.Booking.EndTime, slot.StartTime, slot.EndTime) {
			return true
		}
	}
	return false
}

// suggestionsFor подбирает до трех процедур для свободного слота
func suggestionsFor(ref slotRef, week *domain.Week, p *policy) []domain.SuggestedBooking {
	result := make([]domain.SuggestedBooking, 0)
	if !ref.room.Availability.IsAvailable {
		return result
	}

	if ref.room.Type == domain.RoomOperating && concurrentSurgeries(week, ref.slot) >= p.constraints.MaxConcurrentSurgeries {
		return result
	}

	slotMinutes := ref.slot.DurationMinutes()
	if slotMinutes <= 0 {
		return result
	}

	for _, proc := range p.procedures {
		if !proc.RoomRequirements.AllowsRoom(ref.room) {
			continue
		}

		needed := proc.TotalMinutes() + p.constraints.RoomSetupBuffer
		if needed > slotMinutes {
			continue
		}

		eligible, ok := staffCoverage(proc, ref.slot.AvailableStaff)
		if !ok {
			continue
		}

		fill := float64(needed) / float64(slotMinutes)
		weight := 0.6 + 0.1*float64(proc.Priority.Rank())
		confidence := math.Round(clamp(fill*weight)*100) / 100

		result = append(result, domain.SuggestedBooking{
			Procedure:  *proc,
			Confidence: confidence,
			Reasoning: fmt.Sprintf("%s fits %s %s: %d of %d minutes used, %d eligible staff available",
				proc.Name, ref.room.Name, ref.slot.Type, needed, slotMinutes, eligible),
			Conflicts: []domain.SchedulingConflict{},
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Confidence != result[j].Confidence {
			return result[i].Confidence > result[j].Confidence
		}
		return result[i].Procedure.ID < result[j].Procedure.ID
	})

	if len(result) > domain.MaxSuggestionsPerSlot {
		result = result[:domain.MaxSuggestionsPerSlot]
	}
	return result
}

// concurrentSurgeries количество бронирований операционных недели, пересекающихся с окном слота
func concurrentSurgeries(week *domain.Week, slot *domain.TimeSlot) int {
	count := 0
	for _, room := range week.Rooms {
		if room.Type != domain.RoomOperating {
			continue
		}
		for _, s := range room.TimeSlots {
			if s.Booking != nil && overlaps(s.Booking.StartTime, s.Booking.EndTime, slot.StartTime, slot.EndTime) {
				count++
			}
		}
	}
	return count
}

// staffCoverage проверяет, что требования процедуры к персоналу покрываются
// разными доступными сотрудниками. Возвращает число подходящих сотрудников.
func staffCoverage(proc *domain.Procedure, available []*domain.StaffMember) (int, bool) {
	requirements := proc.StaffRequirements
	matched := matchRequirements(requirements, len(available), func(r, c int) bool {
		return available[c].Role == requirements[r].Role && available[c].HasSpecialties(requirements[r].Specialties)
	})

	total := 0
	for i, req := range requirements {
		if matched[i] < req.Count {
			return 0, false
		}
		total += matched[i]
	}
	return total, true
}
