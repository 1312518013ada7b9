package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidWeekday возвращается для названия дня недели вне семи допустимых
	ErrInvalidWeekday = errors.New("domain: invalid weekday")

	// ErrInvalidConstraints возвращается при значениях ограничений вне допустимых диапазонов
	ErrInvalidConstraints = errors.New("domain: invalid scheduling constraints")

	// ErrInvalidOptimizationSettings возвращается при некорректных настройках оптимизации
	ErrInvalidOptimizationSettings = errors.New("domain: invalid optimization settings")
)

var validate = validator.New()

// Constraints are the hard scheduling limits of a generation run
type Constraints struct {
	MaxConcurrentSurgeries int     `json:"maxConcurrentSurgeries" toml:"max_concurrent_surgeries" validate:"gte=1,lte=50"`
	MinStaffPerSurgery     int     `json:"minStaffPerSurgery" toml:"min_staff_per_surgery" validate:"gte=0,lte=50"`
	MaxStaffHoursPerWeek   float64 `json:"maxStaffHoursPerWeek" toml:"max_staff_hours_per_week" validate:"gt=0,lte=168"`
	RoomSetupBuffer        int     `json:"roomSetupBuffer" toml:"room_setup_buffer" validate:"gte=0,lte=240"` // минуты
	StaffBreakTime         int     `json:"staffBreakTime" toml:"staff_break_time" validate:"gte=0,lte=240"`   // минуты
	EmergencyBuffer        float64 `json:"emergencyBuffer" toml:"emergency_buffer" validate:"gte=0,lte=1"`    // доля слотов
}

// OptimizationSettings toggles the optimizer passes
type OptimizationSettings struct {
	PrioritizeUrgentCases    bool    `json:"prioritizeUrgentCases" toml:"prioritize_urgent_cases"`
	MaximizeRoomUtilization  bool    `json:"maximizeRoomUtilization" toml:"maximize_room_utilization"`
	MinimizeStaffOvertime    bool    `json:"minimizeStaffOvertime" toml:"minimize_staff_overtime"`
	BalanceWorkload          bool    `json:"balanceWorkload" toml:"balance_workload"`
	ConsiderStaffPreferences bool    `json:"considerStaffPreferences" toml:"consider_staff_preferences"`
	EmergencySlotReservation float64 `json:"emergencySlotReservation" toml:"emergency_slot_reservation" validate:"gte=0,lte=1"`
}

// DefaultConstraints returns the clinic's default constraints
func DefaultConstraints() Constraints {
	return Constraints{
		MaxConcurrentSurgeries: DefaultMaxConcurrentSurgeries,
		MinStaffPerSurgery:     DefaultMinStaffPerSurgery,
		MaxStaffHoursPerWeek:   DefaultMaxStaffHoursPerWeek,
		RoomSetupBuffer:        DefaultRoomSetupBufferMinutes,
		StaffBreakTime:         DefaultStaffBreakMinutes,
		EmergencyBuffer:        DefaultEmergencyBuffer,
	}
}

// DefaultOptimizationSettings returns settings with every pass enabled
func DefaultOptimizationSettings() OptimizationSettings {
	return OptimizationSettings{
		PrioritizeUrgentCases:    true,
		MaximizeRoomUtilization:  true,
		MinimizeStaffOvertime:    true,
		BalanceWorkload:          true,
		ConsiderStaffPreferences: true,
		EmergencySlotReservation: DefaultEmergencySlotReservation,
	}
}

// Validate проверяет диапазоны ограничений
func (c Constraints) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConstraints, err)
	}
	return nil
}

// Validate проверяет настройки оптимизации
func (s OptimizationSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptimizationSettings, err)
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday maps one of the seven English weekday names to time.Weekday
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdays[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return day, nil
}

// DefaultSettingsID идентификатор единственного набора настроек движка
const DefaultSettingsID = "default"

// SchedulerSettings persisted constraints and optimization switches that override the file config
type SchedulerSettings struct {
	ID           string               `json:"id"`
	Constraints  Constraints          `json:"constraints"`
	Optimization OptimizationSettings `json:"optimizationSettings"`
	UpdatedBy    string               `json:"updatedBy,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// Validate проверяет ограничения и настройки оптимизации
func (s *SchedulerSettings) Validate() error {
	if err := s.Constraints.Validate(); err != nil {
		return err
	}
	return s.Optimization.Validate()
}
