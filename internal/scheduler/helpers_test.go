package scheduler

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/ptr"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Info(format string, v ...interface{}) {
	m.Called(format)
}

func (m *mockLogger) Warn(format string, v ...interface{}) {
	m.Called(format)
}

func (m *mockLogger) Error(format string, v ...interface{}) {
	m.Called(format)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) ObserveOptimizerMoves(pass string, moves int) {
	m.Called(pass, moves)
}

func ts(s string) types.TimeString {
	return types.MustTimeString(s)
}

func tsPtr(s string) *types.TimeString {
	return ptr.Ptr(types.MustTimeString(s))
}

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newStaff(id string, role domain.StaffRole, start, end string, specialties ...domain.Specialty) *domain.StaffMember {
	return &domain.StaffMember{
		ID:          id,
		Name:        "Staff " + id,
		Role:        role,
		Specialties: specialties,
		Availability: domain.StaffAvailability{
			WorkingDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			StartTime:   ts(start),
			EndTime:     ts(end),
			Exceptions:  []domain.DateException{},
		},
		MaxHoursPerWeek: 40,
	}
}

func newProcedure(id string, minutes int, priority domain.Priority, roomTypes ...domain.RoomType) domain.Procedure {
	return domain.Procedure{
		ID:              id,
		Name:            "Procedure " + id,
		DurationMinutes: minutes,
		Priority:        priority,
		Category:        "general",
		RoomRequirements: domain.RoomRequirement{
			RoomTypes: roomTypes,
		},
	}
}

func newBooking(id string, week int, roomID string, slotType domain.SlotType, start, end string, staff ...domain.AssignedStaff) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		Date:          "2024-01-01",
		DayOfWeek:     "Monday",
		WeekNumber:    week,
		RoomID:        roomID,
		SlotType:      slotType,
		Procedure:     newProcedure("proc-"+id, 60, domain.PriorityMedium),
		AssignedStaff: staff,
		StartTime:     ts(start),
		EndTime:       ts(end),
		Status:        domain.StatusScheduled,
		Priority:      domain.PriorityMedium,
	}
}

func assign(member *domain.StaffMember, start, end string) domain.AssignedStaff {
	return domain.AssignedStaff{
		StaffID:     member.ID,
		Role:        member.Role,
		Name:        member.Name,
		StartTime:   ts(start),
		EndTime:     ts(end),
		IsConfirmed: true,
	}
}

// noOptimization отключает все проходы оптимизатора
func noOptimization() domain.OptimizationSettings {
	return domain.OptimizationSettings{}
}

func baseInput() *Input {
	return &Input{
		Year:        2024,
		Month:       time.January,
		Weekday:     "Monday",
		Constraints: domain.DefaultConstraints(),
		Settings:    domain.DefaultOptimizationSettings(),
	}
}

// testPolicy политика без ограничений на состав бригады
func testPolicy(staff ...*domain.StaffMember) *policy {
	in := baseInput()
	in.Constraints.MinStaffPerSurgery = 0
	in.Staff = staff
	return newPolicy(in)
}

// singleWeek строит одну неделю на 2024-01-01 по каталогу по умолчанию
func singleWeek(staff ...*domain.StaffMember) []*domain.Week {
	return buildLattice([]weekOccurrence{{Number: 1, Date: date("2024-01-01")}}, DefaultCatalog(), staff)
}

func findSlot(weeks []*domain.Week, id string) *domain.TimeSlot {
	for _, w := range weeks {
		for _, r := range w.Rooms {
			for _, s := range r.TimeSlots {
				if s.ID == id {
					return s
				}
			}
		}
	}
	return nil
}

func countConflicts(conflicts []domain.SchedulingConflict, t domain.ConflictType) int {
	n := 0
	for _, c := range conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}
