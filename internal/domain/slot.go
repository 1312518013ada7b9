package domain

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// SlotType represents the shape of a time slot
type SlotType string

const (
	SlotAM      SlotType = "AM"
	SlotPM      SlotType = "PM"
	SlotFullDay SlotType = "FULL_DAY"
	SlotCustom  SlotType = "CUSTOM"
)

// IsValid returns true if the slot type is one of the known shapes
func (t SlotType) IsValid() bool {
	switch t {
	case SlotAM, SlotPM, SlotFullDay, SlotCustom:
		return true
	default:
		return false
	}
}

// SlotID builds the schedule-wide unique identity of a slot (week × room × slot type)
func SlotID(weekNumber int, roomID string, slotType SlotType) string {
	return fmt.Sprintf("week-%d-%s-%s", weekNumber, roomID, strings.ToLower(string(slotType)))
}

// TimeSlot represents a bounded, room-scoped time window that may hold at most one booking
type TimeSlot struct {
	ID                   string               `json:"id"`
	Type                 SlotType             `json:"type"`
	StartTime            types.TimeString     `json:"startTime"`
	EndTime              types.TimeString     `json:"endTime"`
	Booking              *Booking             `json:"booking,omitempty"`
	AvailableStaff       []*StaffMember       `json:"availableStaff"`
	Conflicts            []SchedulingConflict `json:"conflicts"`
	SuggestedBookings    []SuggestedBooking   `json:"suggestedBookings"`
	ReservedForEmergency bool                 `json:"reservedForEmergency,omitempty"`
}

// IsBooked returns true if the slot holds a booking
func (s *TimeSlot) IsBooked() bool {
	return s.Booking != nil
}

// DurationMinutes returns the length of the slot window
func (s *TimeSlot) DurationMinutes() int {
	return s.EndTime.Sub(s.StartTime)
}

// HasAvailableStaff returns true if the staff member was available for the slot window at generation time
func (s *TimeSlot) HasAvailableStaff(staffID string) bool {
	for _, st := range s.AvailableStaff {
		if st.ID == staffID {
			return true
		}
	}
	return false
}

// SuggestedBooking is a non-binding candidate procedure for a free slot
type SuggestedBooking struct {
	Procedure  Procedure            `json:"procedure"`
	Confidence float64              `json:"confidence"` // 0-1
	Reasoning  string               `json:"reasoning"`
	Conflicts  []SchedulingConflict `json:"conflicts"`
}
