package domain

// RoomType represents the kind of room
type RoomType string

const (
	RoomOperating    RoomType = "operating"
	RoomProcedure    RoomType = "procedure"
	RoomConsultation RoomType = "consultation"
)

// Room represents a room generated by the scheduler for a single week
type Room struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         RoomType         `json:"type"`
	Size         int              `json:"size"` // м²
	Features     []string         `json:"features"`
	TimeSlots    []*TimeSlot      `json:"timeSlots"`
	Availability RoomAvailability `json:"availability"`
	Utilization  RoomUtilization  `json:"utilization"`
}

// RoomAvailability describes whether the room can be used
type RoomAvailability struct {
	IsAvailable          bool   `json:"isAvailable"`
	MaintenanceScheduled string `json:"maintenanceScheduled,omitempty"` // YYYY-MM-DD
	UnavailableReason    string `json:"unavailableReason,omitempty"`
}

// RoomUtilization is the per-room utilization snapshot
type RoomUtilization struct {
	TotalSlots             int     `json:"totalSlots"`
	BookedSlots            int     `json:"bookedSlots"`
	UtilizationRate        float64 `json:"utilizationRate"`        // 0-1
	AverageBookingDuration float64 `json:"averageBookingDuration"` // в минутах
}

// HasFeature returns true if the room has the feature tag
func (r *Room) HasFeature(feature string) bool {
	for _, f := range r.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Slot returns the room's slot of the given type
func (r *Room) Slot(slotType SlotType) (*TimeSlot, bool) {
	for _, ts := range r.TimeSlots {
		if ts.Type == slotType {
			return ts, true
		}
	}
	return nil, false
}

// BookedSlots returns the number of slots holding a booking
func (r *Room) BookedSlots() int {
	count := 0
	for _, ts := range r.TimeSlots {
		if ts.IsBooked() {
			count++
		}
	}
	return count
}
