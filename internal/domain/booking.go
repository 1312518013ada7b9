package domain

import (
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled  BookingStatus = "scheduled"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// IsValid returns true if the status is known
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Booking represents a procedure booked into a (week, room, slot type) position
type Booking struct {
	ID            string               `json:"id"`
	Date          string               `json:"date"` // YYYY-MM-DD
	DayOfWeek     string               `json:"dayOfWeek"`
	WeekNumber    int                  `json:"weekNumber"`
	RoomID        string               `json:"roomId"`
	SlotType      SlotType             `json:"timeSlotType"`
	Procedure     Procedure            `json:"procedure"`
	AssignedStaff []AssignedStaff      `json:"assignedStaff"`
	StartTime     types.TimeString     `json:"startTime"`
	EndTime       types.TimeString     `json:"endTime"`
	Status        BookingStatus        `json:"status"`
	Priority      Priority             `json:"priority"`
	Notes         *string              `json:"notes,omitempty"`
	Conflicts     []SchedulingConflict `json:"conflicts,omitempty"`
}

// AssignedStaff is a staff member assigned to a booking with an individual window
type AssignedStaff struct {
	StaffID     string           `json:"staffId"`
	Role        StaffRole        `json:"role"`
	Name        string           `json:"name"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	IsConfirmed bool             `json:"isConfirmed"`
}

// DurationMinutes returns the length of the assignment window
func (a *AssignedStaff) DurationMinutes() int {
	return a.EndTime.Sub(a.StartTime)
}

// IsActive returns true if the booking is not cancelled
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsUrgent returns true if the booking has urgent priority
func (b *Booking) IsUrgent() bool {
	return b.Priority == PriorityUrgent
}

// DurationMinutes returns the length of the booking window
func (b *Booking) DurationMinutes() int {
	return b.EndTime.Sub(b.StartTime)
}

// ParsedDate returns the booking date, ok=false if it is empty or malformed
func (b *Booking) ParsedDate() (time.Time, bool) {
	if b.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateFormat, b.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Clone returns a deep copy of the booking
func (b *Booking) Clone() *Booking {
	c := *b
	c.AssignedStaff = append([]AssignedStaff(nil), b.AssignedStaff...)
	c.Conflicts = append([]SchedulingConflict(nil), b.Conflicts...)
	if b.Notes != nil {
		notes := *b.Notes
		c.Notes = &notes
	}
	return &c
}

// BookingKey is the persistence key of a booking record
type BookingKey struct {
	Date       string
	WeekNumber int
	RoomID     string
	SlotType   SlotType
}

// MonthBookingsFilter фильтр для получения бронирований за месяц по дню недели
type MonthBookingsFilter struct {
	Year      int
	Month     time.Month
	DayOfWeek string
	// IncludeCancelled включать ли отмененные бронирования
	IncludeCancelled bool
}
