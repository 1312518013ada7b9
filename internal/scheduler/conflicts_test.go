package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

func detect(weeks []*domain.Week, p *policy, bookings ...*domain.Booking) []scopedConflict {
	applyBookings(weeks, bookings, p, nopLogger{})
	found := detectConflicts(weeks, p)
	attachConflicts(weeks, found)
	return found
}

func TestDetectConflicts_DoubleBooking(t *testing.T) {
	weeks := singleWeek()
	p := testPolicy()

	detect(weeks, p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00"),
		newBooking("b2", 1, "procedure-room-1", domain.SlotFullDay, "10:00", "14:00"),
	)

	am := findSlot(weeks, "week-1-procedure-room-1-am")
	full := findSlot(weeks, "week-1-procedure-room-1-full_day")

	require.Equal(t, 1, countConflicts(am.Conflicts, domain.ConflictDoubleBooking))
	require.Equal(t, 1, countConflicts(full.Conflicts, domain.ConflictDoubleBooking))

	c := am.Conflicts[0]
	assert.Equal(t, domain.SeverityCritical, c.Severity)
	assert.ElementsMatch(t, []string{"b1", "b2"}, c.AffectedElements)
	assert.Equal(t, []string{"Reschedule one of the procedures", "Use a different room", "Adjust procedure timing"}, c.SuggestedResolutions)

	// сводный список недели не дедуплицируется
	assert.Equal(t, 2, countConflicts(weeks[0].Conflicts, domain.ConflictDoubleBooking))
	assert.Equal(t, 1, countConflicts(am.Booking.Conflicts, domain.ConflictDoubleBooking))
}

func TestDetectConflicts_DisjointWindows(t *testing.T) {
	weeks := singleWeek()

	found := detect(weeks, testPolicy(),
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00"),
		newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "13:00", "17:00"),
	)

	for _, sc := range found {
		assert.NotEqual(t, domain.ConflictDoubleBooking, sc.conflict.Type)
	}
	assert.Empty(t, weeks[0].Conflicts)
}

func TestDetectConflicts_AdjacentWindowsDoNotOverlap(t *testing.T) {
	weeks := singleWeek()

	detect(weeks, testPolicy(),
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00"),
		newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "12:00", "14:00"),
	)

	assert.Zero(t, countConflicts(weeks[0].Conflicts, domain.ConflictDoubleBooking))
}

func TestDetectConflicts_OneConflictPerSlot(t *testing.T) {
	weeks := singleWeek()

	detect(weeks, testPolicy(),
		newBooking("b1", 1, "consultation-room-1", domain.SlotFullDay, "08:00", "17:00"),
		newBooking("b2", 1, "consultation-room-1", domain.SlotAM, "09:00", "10:00"),
		newBooking("b3", 1, "consultation-room-1", domain.SlotPM, "14:00", "15:00"),
	)

	full := findSlot(weeks, "week-1-consultation-room-1-full_day")
	require.Equal(t, 1, countConflicts(full.Conflicts, domain.ConflictDoubleBooking))
	assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, full.Conflicts[0].AffectedElements)

	am := findSlot(weeks, "week-1-consultation-room-1-am")
	require.Equal(t, 1, countConflicts(am.Conflicts, domain.ConflictDoubleBooking))
	assert.ElementsMatch(t, []string{"b2", "b1"}, am.Conflicts[0].AffectedElements)
}

func TestDetectConflicts_StaffUnavailable(t *testing.T) {
	surgeon := newStaff("s1", domain.RoleSurgeon, "08:00", "12:00")
	weeks := singleWeek(surgeon)
	p := testPolicy(surgeon)

	detect(weeks, p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotPM, "13:00", "15:00", assign(surgeon, "13:00", "15:00")),
	)

	slot := findSlot(weeks, "week-1-procedure-room-1-pm")
	require.Len(t, slot.Conflicts, 1)

	c := slot.Conflicts[0]
	assert.Equal(t, domain.ConflictStaffUnavailable, c.Type)
	assert.Equal(t, domain.SeverityHigh, c.Severity)
	assert.Equal(t, "Staff s1 is not available during this time slot", c.Description)
	assert.Equal(t, []string{"s1"}, c.AffectedElements)
	assert.Len(t, weeks[0].Conflicts, 1)
}

func TestDetectConflicts_StaffExceptionOnWeekDate(t *testing.T) {
	surgeon := newStaff("s1", domain.RoleSurgeon, "08:00", "17:00")
	surgeon.Availability.Exceptions = []domain.DateException{{Date: "2024-01-01", IsAvailable: false}}
	weeks := singleWeek(surgeon)

	detect(weeks, testPolicy(surgeon),
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "10:00", assign(surgeon, "08:00", "10:00")),
	)

	assert.Equal(t, 1, countConflicts(weeks[0].Conflicts, domain.ConflictStaffUnavailable))
	assert.Empty(t, findSlot(weeks, "week-1-procedure-room-1-am").AvailableStaff)
}

func TestDetectConflicts_UnknownStaffIsSkipped(t *testing.T) {
	ghost := newStaff("ghost", domain.RoleNurse, "20:00", "21:00")
	weeks := singleWeek()

	detect(weeks, testPolicy(),
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "10:00", assign(ghost, "08:00", "10:00")),
	)

	assert.Empty(t, weeks[0].Conflicts)
}

func TestDetectConflicts_StaffOverlap(t *testing.T) {
	nurse := newStaff("n1", domain.RoleNurse, "08:00", "17:00")
	p := testPolicy(nurse)

	t.Run("overlapping assignments", func(t *testing.T) {
		weeks := singleWeek(nurse)
		detect(weeks, p,
			newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "10:00", assign(nurse, "08:00", "10:00")),
			newBooking("b2", 1, "consultation-room-1", domain.SlotAM, "11:00", "12:00", assign(nurse, "09:00", "12:00")),
		)

		slot := findSlot(weeks, "week-1-procedure-room-1-am")
		require.Equal(t, 1, countConflicts(slot.Conflicts, domain.ConflictStaffOverlap))
		for _, c := range slot.Conflicts {
			if c.Type == domain.ConflictStaffOverlap {
				assert.Equal(t, domain.SeverityHigh, c.Severity)
				assert.Equal(t, []string{"n1", "b1", "b2"}, c.AffectedElements)
			}
		}
	})

	t.Run("no break between assignments", func(t *testing.T) {
		weeks := singleWeek(nurse)
		detect(weeks, p,
			newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "10:00", assign(nurse, "08:00", "10:00")),
			newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "13:00", "15:00", assign(nurse, "10:15", "12:00")),
		)

		slot := findSlot(weeks, "week-1-procedure-room-1-pm")
		require.Equal(t, 1, countConflicts(slot.Conflicts, domain.ConflictStaffOverlap))
		assert.Equal(t, domain.SeverityMedium, slot.Conflicts[0].Severity)
	})

	t.Run("enough break", func(t *testing.T) {
		weeks := singleWeek(nurse)
		detect(weeks, p,
			newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "10:00", assign(nurse, "08:00", "10:00")),
			newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "13:00", "15:00", assign(nurse, "13:00", "15:00")),
		)

		assert.Zero(t, countConflicts(weeks[0].Conflicts, domain.ConflictStaffOverlap))
	})
}

func TestDetectConflicts_RoomChecks(t *testing.T) {
	catalog := DefaultCatalog()
	catalog.Rooms[0].Maintenance = []RoomMaintenance{{Date: "2024-01-01", Reason: "ventilation service"}}
	weeks := buildLattice([]weekOccurrence{{Number: 1, Date: date("2024-01-01")}}, catalog, nil)

	mismatched := newBooking("b2", 1, "consultation-room-1", domain.SlotAM, "08:00", "09:00")
	mismatched.Procedure = newProcedure("hip", 60, domain.PriorityHigh, domain.RoomOperating)

	detect(weeks, testPolicy(),
		newBooking("b1", 1, "operating-room-1", domain.SlotPM, "13:00", "14:00"),
		mismatched,
	)

	pm := findSlot(weeks, "week-1-operating-room-1-pm")
	require.Len(t, pm.Conflicts, 1)
	assert.Equal(t, domain.ConflictRoomUnavailable, pm.Conflicts[0].Type)
	assert.Equal(t, domain.SeverityCritical, pm.Conflicts[0].Severity)
	assert.Contains(t, pm.Conflicts[0].Description, "ventilation service")

	am := findSlot(weeks, "week-1-consultation-room-1-am")
	require.Len(t, am.Conflicts, 1)
	assert.Equal(t, domain.ConflictRoomUnavailable, am.Conflicts[0].Type)
	assert.Equal(t, domain.SeverityMedium, am.Conflicts[0].Severity)
	assert.Equal(t, []string{"consultation-room-1", "b2"}, am.Conflicts[0].AffectedElements)
}

func TestDetectConflicts_Staffing(t *testing.T) {
	surgeon := newStaff("s1", domain.RoleSurgeon, "08:00", "17:00", domain.SpecialtyGeneral)
	in := baseInput()
	in.Staff = []*domain.StaffMember{surgeon}
	p := newPolicy(in)

	booking := newBooking("b1", 1, "operating-room-1", domain.SlotAM, "08:00", "10:00", assign(surgeon, "08:00", "10:00"))
	booking.Procedure.StaffRequirements = []domain.StaffRequirement{
		{Role: domain.RoleSurgeon, Count: 1, Specialties: []domain.Specialty{domain.SpecialtyCardiology}},
		{Role: domain.RoleNurse, Count: 2},
	}

	weeks := singleWeek(surgeon)
	detect(weeks, p, booking)

	slot := findSlot(weeks, "week-1-operating-room-1-am")
	// кардиолог, две медсестры и минимальный состав бригады
	assert.Equal(t, 3, countConflicts(slot.Conflicts, domain.ConflictStaffUnavailable))
	for _, c := range slot.Conflicts {
		assert.Equal(t, domain.SeverityMedium, c.Severity)
	}
}

func TestDetectConflicts_DoesNotMutateWhileDeriving(t *testing.T) {
	weeks := singleWeek()
	p := testPolicy()
	applyBookings(weeks, []*domain.Booking{
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00"),
		newBooking("b2", 1, "operating-room-1", domain.SlotAM, "09:00", "11:00"),
	}, p, nopLogger{})

	found := detectConflicts(weeks, p)

	assert.Len(t, found, 2)
	assert.Empty(t, weeks[0].Conflicts)
	for _, s := range weeks[0].Slots() {
		assert.Empty(t, s.Conflicts)
	}
}

func TestDetectConflicts_StaffingPrefersSpecialistForStricterRequirement(t *testing.T) {
	cardiacNurse := newStaff("n1", domain.RoleNurse, "08:00", "17:00", domain.SpecialtyCardiology)
	nurse := newStaff("n2", domain.RoleNurse, "08:00", "17:00")
	in := baseInput()
	in.Staff = []*domain.StaffMember{cardiacNurse, nurse}
	p := newPolicy(in)

	booking := newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "10:00",
		assign(cardiacNurse, "08:00", "10:00"), assign(nurse, "08:00", "10:00"))
	booking.Procedure.StaffRequirements = []domain.StaffRequirement{
		{Role: domain.RoleNurse, Count: 1},
		{Role: domain.RoleNurse, Count: 1, Specialties: []domain.Specialty{domain.SpecialtyCardiology}},
	}

	weeks := singleWeek(cardiacNurse, nurse)
	detect(weeks, p, booking)

	assert.Empty(t, findSlot(weeks, "week-1-procedure-room-1-am").Conflicts)
}
