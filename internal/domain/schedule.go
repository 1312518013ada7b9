package domain

import "time"

// Week represents one occurrence of the selected weekday within the month
type Week struct {
	ID          string               `json:"id"`
	Number      int                  `json:"number"`
	Name        string               `json:"name"`
	Date        string               `json:"date"` // YYYY-MM-DD
	DateLabel   string               `json:"dateLabel"`
	Rooms       []*Room              `json:"rooms"`
	Conflicts   []SchedulingConflict `json:"conflicts"`
	Utilization WeekUtilization      `json:"utilization"`
}

// WeekUtilization is the per-week utilization snapshot
type WeekUtilization struct {
	TotalSlots       int     `json:"totalSlots"`
	BookedSlots      int     `json:"bookedSlots"`
	UtilizationRate  float64 `json:"utilizationRate"`  // 0-1
	StaffUtilization float64 `json:"staffUtilization"` // 0-1, часы назначений / доступные часы
	RoomUtilization  float64 `json:"roomUtilization"`  // 0-1, занятые минуты / доступные минуты
}

// ParsedDate returns the calendar date of the week
func (w *Week) ParsedDate() time.Time {
	d, _ := time.Parse(DateFormat, w.Date)
	return d
}

// Room returns the week's room with the given ID
func (w *Week) Room(roomID string) (*Room, bool) {
	for _, r := range w.Rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return nil, false
}

// Slots returns every slot of the week in catalog order
func (w *Week) Slots() []*TimeSlot {
	slots := make([]*TimeSlot, 0)
	for _, r := range w.Rooms {
		slots = append(slots, r.TimeSlots...)
	}
	return slots
}

// Schedule is the annotated result of a generation run
type Schedule struct {
	ID                   string               `json:"id"`
	Year                 int                  `json:"year"`
	Month                time.Month           `json:"month"`
	SelectedDay          string               `json:"selectedDay"`
	Weeks                []*Week              `json:"weeks"`
	Constraints          Constraints          `json:"constraints"`
	OptimizationSettings OptimizationSettings `json:"optimizationSettings"`
	GeneratedAt          time.Time            `json:"generatedAt"`
}

// ConflictCount returns the number of conflicts across all weeks
func (s *Schedule) ConflictCount() int {
	count := 0
	for _, w := range s.Weeks {
		count += len(w.Conflicts)
	}
	return count
}
