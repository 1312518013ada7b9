package scheduler

import (
	"sort"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// calculateUtilization заполняет показатели загрузки помещений и недель.
// Деление на ноль дает 0, все доли ограничены отрезком [0, 1].
func calculateUtilization(lattice []*domain.Week, p *policy) {
	for _, week := range lattice {
		date := week.ParsedDate()

		var (
			total, booked       int
			bookedMin, availMin int
			assignedMin         int
		)

		for _, room := range week.Rooms {
			roomBooked := 0
			durationSum := 0
			slotWindows := make([]window, 0, len(room.TimeSlots))
			bookingWindows := make([]window, 0)

			for _, slot := range room.TimeSlots {
				slotWindows = append(slotWindows, window{slot.StartTime, slot.EndTime})
				if slot.Booking == nil {
					continue
				}
				roomBooked++
				durationSum += slot.Booking.DurationMinutes()
				bookingWindows = append(bookingWindows, window{slot.Booking.StartTime, slot.Booking.EndTime})

				for i := range slot.Booking.AssignedStaff {
					start, end := assignmentWindow(slot.Booking, &slot.Booking.AssignedStaff[i])
					if d := end.Sub(start); d > 0 {
						assignedMin += d
					}
				}
			}

			room.Utilization = domain.RoomUtilization{
				TotalSlots:      len(room.TimeSlots),
				BookedSlots:     roomBooked,
				UtilizationRate: ratio(float64(roomBooked), float64(len(room.TimeSlots))),
			}
			if roomBooked > 0 {
				room.Utilization.AverageBookingDuration = float64(durationSum) / float64(roomBooked)
			}

			total += len(room.TimeSlots)
			booked += roomBooked

			if room.Availability.IsAvailable {
				availMin += unionMinutes(slotWindows)
				bookedMin += unionMinutes(bookingWindows)
			}
		}

		availableStaffMin := 0.0
		for _, s := range p.staff {
			availableStaffMin += AvailableHours(s, date) * 60
		}

		week.Utilization = domain.WeekUtilization{
			TotalSlots:       total,
			BookedSlots:      booked,
			UtilizationRate:  ratio(float64(booked), float64(total)),
			StaffUtilization: ratio(float64(assignedMin), availableStaffMin),
			RoomUtilization:  ratio(float64(bookedMin), float64(availMin)),
		}
	}
}

// window интервал времени [start, end)
type window struct {
	start types.TimeString
	end   types.TimeString
}

// unionMinutes длина объединения интервалов в минутах
func unionMinutes(windows []window) int {
	valid := make([]window, 0, len(windows))
	for _, w := range windows {
		if !w.start.IsZero() && !w.end.IsZero() && w.start.IsBefore(w.end) {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return 0
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].start.IsBefore(valid[j].start)
	})

	total := 0
	cur := valid[0]
	for _, w := range valid[1:] {
		if w.start.IsAfter(cur.end) {
			total += cur.end.Sub(cur.start)
			cur = w
			continue
		}
		if w.end.IsAfter(cur.end) {
			cur.end = w.end
		}
	}
	total += cur.end.Sub(cur.start)

	return total
}

// ratio безопасное деление с ограничением результата отрезком [0, 1]
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return clamp(num / den)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
