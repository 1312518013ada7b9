package domain

// Default configuration values
const (
	DefaultMaxConcurrentSurgeries   = 2
	DefaultMinStaffPerSurgery       = 3
	DefaultMaxStaffHoursPerWeek     = 40
	DefaultRoomSetupBufferMinutes   = 15
	DefaultStaffBreakMinutes        = 30
	DefaultEmergencyBuffer          = 0.1 // 10% слотов резервируется под экстренные случаи
	DefaultEmergencySlotReservation = 0.1
)

// Business validation constants
const (
	MaxConcurrentSurgeriesLimit = 50
	MaxStaffHoursPerWeekLimit   = 168 // часов в неделе
	MaxBufferMinutes            = 240
	MaxSuggestionsPerSlot       = 3
	MaxNotesLength              = 1000
)

// Time format constants
const (
	TimeFormat      = "15:04"      // HH:MM
	DateFormat      = "2006-01-02" // YYYY-MM-DD
	WeekLabelFormat = "Monday, January 2, 2006"
)

// ActiveStatuses список статусов, при которых бронирование занимает слот
var ActiveStatuses = []BookingStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
