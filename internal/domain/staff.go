package domain

import (
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// StaffRole represents the role a staff member plays in a procedure
type StaffRole string

const (
	RoleSurgeon      StaffRole = "surgeon"
	RoleNurse        StaffRole = "nurse"
	RoleAnaesthetist StaffRole = "anaesthetist"
	RoleSupport      StaffRole = "support"
	RoleTechnician   StaffRole = "technician"
)

// Specialty represents a clinical specialty
type Specialty string

const (
	SpecialtyCardiology  Specialty = "cardiology"
	SpecialtyOrthopedics Specialty = "orthopedics"
	SpecialtyNeurology   Specialty = "neurology"
	SpecialtyGeneral     Specialty = "general"
	SpecialtyEmergency   Specialty = "emergency"
	SpecialtyPediatrics  Specialty = "pediatrics"
	SpecialtyOncology    Specialty = "oncology"
	SpecialtyTrauma      Specialty = "trauma"
)

// StaffMember represents a clinician or support worker that can be assigned to bookings.
// The scheduler treats it as read-only input.
type StaffMember struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Role                 StaffRole         `json:"role"`
	Specialties          []Specialty       `json:"specialties"`
	Email                string            `json:"email,omitempty"`
	Phone                string            `json:"phone,omitempty"`
	Availability         StaffAvailability `json:"availability"`
	Preferences          StaffPreferences  `json:"preferences"`
	MaxHoursPerWeek      float64           `json:"maxHoursPerWeek"`
	CurrentHoursThisWeek float64           `json:"currentHoursThisWeek"`
}

// StaffAvailability describes the default weekly working window
type StaffAvailability struct {
	WorkingDays []string         `json:"workingDays"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	Timezone    string           `json:"timezone,omitempty"`
	Exceptions  []DateException  `json:"exceptions"`
}

// DateException overrides the default availability for a single date
type DateException struct {
	Date        string            `json:"date"` // YYYY-MM-DD
	IsAvailable bool              `json:"isAvailable"`
	StartTime   *types.TimeString `json:"startTime,omitempty"`
	EndTime     *types.TimeString `json:"endTime,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

// HasHours returns true if the exception carries its own working hours
func (e *DateException) HasHours() bool {
	return e.StartTime != nil && e.EndTime != nil && !e.StartTime.IsZero() && !e.EndTime.IsZero()
}

// StaffPreferences holds soft scheduling preferences
type StaffPreferences struct {
	PreferredDays            []string   `json:"preferredDays"`
	PreferredTimeSlots       []SlotType `json:"preferredTimeSlots"`
	MaxConsecutiveDays       int        `json:"maxConsecutiveDays"`
	PreferredRoomTypes       []RoomType `json:"preferredRoomTypes,omitempty"`
	AvoidConcurrentSurgeries bool       `json:"avoidConcurrentSurgeries,omitempty"`
}

// ExceptionFor returns the availability exception recorded for the given date, if any
func (s *StaffMember) ExceptionFor(date time.Time) (*DateException, bool) {
	key := date.Format(DateFormat)
	for i := range s.Availability.Exceptions {
		if s.Availability.Exceptions[i].Date == key {
			return &s.Availability.Exceptions[i], true
		}
	}
	return nil, false
}

// HasSpecialty returns true if the staff member has the given specialty
func (s *StaffMember) HasSpecialty(specialty Specialty) bool {
	for _, sp := range s.Specialties {
		if sp == specialty {
			return true
		}
	}
	return false
}

// HasSpecialties returns true if the staff member has every given specialty
func (s *StaffMember) HasSpecialties(specialties []Specialty) bool {
	for _, sp := range specialties {
		if !s.HasSpecialty(sp) {
			return false
		}
	}
	return true
}

// PrefersDay returns true if the weekday is listed in the preferred days
func (s *StaffMember) PrefersDay(day time.Weekday) bool {
	for _, d := range s.Preferences.PreferredDays {
		if d == day.String() {
			return true
		}
	}
	return false
}

// PrefersSlot returns true if the slot type is listed in the preferred slot types
func (s *StaffMember) PrefersSlot(slotType SlotType) bool {
	for _, st := range s.Preferences.PreferredTimeSlots {
		if st == slotType {
			return true
		}
	}
	return false
}

// PrefersRoom returns true if the room type is listed in the preferred room types
func (s *StaffMember) PrefersRoom(roomType RoomType) bool {
	for _, rt := range s.Preferences.PreferredRoomTypes {
		if rt == roomType {
			return true
		}
	}
	return false
}
