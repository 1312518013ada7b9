package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// bookedLattice строит одну неделю, прикрепляет бронирования и находит конфликты
func bookedLattice(catalog *Catalog, p *policy, bookings ...*domain.Booking) []*domain.Week {
	weeks := buildLattice([]weekOccurrence{{Number: 1, Date: date("2024-01-01")}}, catalog, p.staff)
	applyBookings(weeks, bookings, p, nopLogger{})
	attachConflicts(weeks, detectConflicts(weeks, p))
	return weeks
}

// eveningCatalog каталог по умолчанию с непересекающимися слотами AM, PM и CUSTOM
func eveningCatalog() *Catalog {
	c := DefaultCatalog()
	c.Slots = []SlotSpec{
		{Type: domain.SlotAM, StartTime: ts("08:00"), EndTime: ts("12:00")},
		{Type: domain.SlotPM, StartTime: ts("13:00"), EndTime: ts("17:00")},
		{Type: domain.SlotCustom, StartTime: ts("17:00"), EndTime: ts("20:00")},
	}
	return c
}

func TestUrgentPass_MovesToFreeCompatibleRoom(t *testing.T) {
	p := testPolicy()

	urgent := newBooking("u1", 1, "consultation-room-1", domain.SlotAM, "08:00", "12:00")
	urgent.Priority = domain.PriorityUrgent
	urgent.Procedure = newProcedure("cabg", 180, domain.PriorityUrgent, domain.RoomOperating)

	in := bookedLattice(DefaultCatalog(), p, urgent)
	mismatch := findSlot(in, "week-1-consultation-room-1-am").Conflicts
	require.Len(t, mismatch, 1)

	out, moves := urgentPass{}.Apply(in, p)

	assert.Equal(t, 1, moves)
	moved := findSlot(out, "week-1-operating-room-1-am")
	require.NotNil(t, moved.Booking)
	assert.Equal(t, "u1", moved.Booking.ID)
	assert.Equal(t, "operating-room-1", moved.Booking.RoomID)
	assert.Equal(t, mismatch, moved.Conflicts)
	assert.Nil(t, findSlot(out, "week-1-consultation-room-1-am").Booking)
	assert.Empty(t, findSlot(out, "week-1-consultation-room-1-am").Conflicts)

	// исходная сетка не изменилась
	assert.Equal(t, "u1", findSlot(in, "week-1-consultation-room-1-am").Booking.ID)
	assert.Nil(t, findSlot(in, "week-1-operating-room-1-am").Booking)
	assert.Len(t, in[0].Conflicts, 1)
	assert.Len(t, out[0].Conflicts, 1)
}

func TestUrgentPass_SwapsLowestPriorityOccupant(t *testing.T) {
	p := testPolicy()

	urgent := newBooking("u1", 1, "consultation-room-1", domain.SlotAM, "08:00", "12:00")
	urgent.Priority = domain.PriorityUrgent
	urgent.Procedure = newProcedure("cabg", 180, domain.PriorityUrgent, domain.RoomOperating)

	medium := newBooking("m1", 1, "operating-room-1", domain.SlotAM, "08:00", "12:00")
	low := newBooking("l1", 1, "operating-room-2", domain.SlotAM, "08:00", "12:00")
	low.Priority = domain.PriorityLow

	in := bookedLattice(DefaultCatalog(), p, urgent, medium, low)
	out, moves := urgentPass{}.Apply(in, p)

	assert.Equal(t, 1, moves)
	assert.Equal(t, "m1", findSlot(out, "week-1-operating-room-1-am").Booking.ID)
	assert.Equal(t, "u1", findSlot(out, "week-1-operating-room-2-am").Booking.ID)

	displaced := findSlot(out, "week-1-consultation-room-1-am").Booking
	assert.Equal(t, "l1", displaced.ID)
	assert.Equal(t, "consultation-room-1", displaced.RoomID)
}

func TestUrgentPass_KeepsCompatibleUrgentBooking(t *testing.T) {
	p := testPolicy()

	urgent := newBooking("u1", 1, "operating-room-2", domain.SlotPM, "13:00", "17:00")
	urgent.Priority = domain.PriorityUrgent
	urgent.Procedure = newProcedure("cabg", 180, domain.PriorityUrgent, domain.RoomOperating)

	out, moves := urgentPass{}.Apply(bookedLattice(DefaultCatalog(), p, urgent), p)

	assert.Zero(t, moves)
	assert.Equal(t, "u1", findSlot(out, "week-1-operating-room-2-pm").Booking.ID)
}

func TestPackingPass(t *testing.T) {
	p := testPolicy()

	in := bookedLattice(eveningCatalog(), p,
		newBooking("b1", 1, "operating-room-1", domain.SlotAM, "08:00", "12:00"),
		newBooking("b2", 1, "operating-room-1", domain.SlotPM, "13:00", "17:00"),
		newBooking("b3", 1, "procedure-room-1", domain.SlotCustom, "17:00", "19:00"),
	)

	out, moves := packingPass{}.Apply(in, p)

	assert.Equal(t, 1, moves)
	assert.Equal(t, "b3", findSlot(out, "week-1-operating-room-1-custom").Booking.ID)
	assert.Nil(t, findSlot(out, "week-1-procedure-room-1-custom").Booking)

	roomsWithBookings := 0
	for _, r := range out[0].Rooms {
		if r.BookedSlots() > 0 {
			roomsWithBookings++
		}
	}
	assert.Equal(t, 1, roomsWithBookings)
}

func TestPackingPass_SkipsUrgentAndIncompatible(t *testing.T) {
	p := testPolicy()

	urgent := newBooking("b3", 1, "procedure-room-1", domain.SlotCustom, "17:00", "19:00")
	urgent.Priority = domain.PriorityUrgent

	picky := newBooking("b4", 1, "consultation-room-1", domain.SlotCustom, "17:00", "18:00")
	picky.Procedure = newProcedure("consult", 30, domain.PriorityLow, domain.RoomConsultation)

	in := bookedLattice(eveningCatalog(), p,
		newBooking("b1", 1, "operating-room-1", domain.SlotAM, "08:00", "12:00"),
		newBooking("b2", 1, "operating-room-1", domain.SlotPM, "13:00", "17:00"),
		urgent,
		picky,
	)

	_, moves := packingPass{}.Apply(in, p)

	assert.Zero(t, moves)
}

func TestOvertimePass(t *testing.T) {
	tired := newStaff("n1", domain.RoleNurse, "08:00", "17:00")
	tired.CurrentHoursThisWeek = 34
	fresh := newStaff("n2", domain.RoleNurse, "08:00", "17:00")
	p := testPolicy(tired, fresh)

	low := newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00", assign(tired, "08:00", "12:00"))
	low.Priority = domain.PriorityLow
	high := newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "13:00", "17:00", assign(tired, "13:00", "17:00"))
	high.Priority = domain.PriorityHigh

	out, moves := overtimePass{}.Apply(bookedLattice(DefaultCatalog(), p, low, high), p)

	assert.Equal(t, 1, moves)

	reassigned := findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[0]
	assert.Equal(t, "n2", reassigned.StaffID)
	assert.Equal(t, "Staff n2", reassigned.Name)
	assert.False(t, reassigned.IsConfirmed)

	kept := findSlot(out, "week-1-procedure-room-1-pm").Booking.AssignedStaff[0]
	assert.Equal(t, "n1", kept.StaffID)
	assert.True(t, kept.IsConfirmed)
}

func TestOvertimePass_NoEligibleReplacement(t *testing.T) {
	tired := newStaff("n1", domain.RoleNurse, "08:00", "17:00")
	tired.CurrentHoursThisWeek = 39
	surgeon := newStaff("s1", domain.RoleSurgeon, "08:00", "17:00")
	absent := newStaff("n2", domain.RoleNurse, "08:00", "17:00")
	absent.Availability.Exceptions = []domain.DateException{{Date: "2024-01-01", IsAvailable: false}}
	p := testPolicy(tired, surgeon, absent)

	in := bookedLattice(DefaultCatalog(), p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00", assign(tired, "08:00", "12:00")),
	)
	out, moves := overtimePass{}.Apply(in, p)

	assert.Zero(t, moves)
	assert.Equal(t, "n1", findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[0].StaffID)
}

func TestOvertimePass_PrefersMatchingPreferences(t *testing.T) {
	tired := newStaff("n1", domain.RoleNurse, "08:00", "17:00")
	tired.CurrentHoursThisWeek = 40
	plain := newStaff("n2", domain.RoleNurse, "08:00", "17:00")
	keen := newStaff("n3", domain.RoleNurse, "08:00", "17:00")
	keen.CurrentHoursThisWeek = 10
	keen.Preferences.PreferredDays = []string{"Monday"}
	keen.Preferences.PreferredTimeSlots = []domain.SlotType{domain.SlotAM}
	p := testPolicy(tired, plain, keen)

	in := bookedLattice(DefaultCatalog(), p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00", assign(tired, "08:00", "12:00")),
	)

	out, _ := overtimePass{}.Apply(in, p)
	assert.Equal(t, "n3", findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[0].StaffID)

	p.settings.ConsiderStaffPreferences = false
	out, _ = overtimePass{}.Apply(in, p)
	assert.Equal(t, "n2", findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[0].StaffID)
}

func TestBalancingPass(t *testing.T) {
	busy := newStaff("n1", domain.RoleNurse, "08:00", "17:00")
	idle := newStaff("n2", domain.RoleNurse, "08:00", "17:00")
	lone := newStaff("s1", domain.RoleSurgeon, "08:00", "17:00")
	p := testPolicy(busy, idle, lone)

	in := bookedLattice(DefaultCatalog(), p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00", assign(busy, "08:00", "12:00"), assign(lone, "08:00", "12:00")),
		newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "13:00", "17:00", assign(busy, "13:00", "17:00")),
	)

	out, moves := balancingPass{}.Apply(in, p)

	assert.Equal(t, 1, moves)
	assert.Equal(t, "n2", findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[0].StaffID)
	assert.Equal(t, "s1", findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[1].StaffID)
	assert.Equal(t, "n1", findSlot(out, "week-1-procedure-room-1-pm").Booking.AssignedStaff[0].StaffID)
}

func TestBalancingPass_RequiresStrictVarianceDecrease(t *testing.T) {
	busy := newStaff("n1", domain.RoleNurse, "08:00", "17:00")
	idle := newStaff("n2", domain.RoleNurse, "08:00", "17:00")
	p := testPolicy(busy, idle)

	in := bookedLattice(DefaultCatalog(), p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00", assign(busy, "08:00", "12:00")),
	)

	out, moves := balancingPass{}.Apply(in, p)

	assert.Zero(t, moves)
	assert.Equal(t, "n1", findSlot(out, "week-1-procedure-room-1-am").Booking.AssignedStaff[0].StaffID)
}

func TestBalancingPass_GroupsBySpecialties(t *testing.T) {
	cardio := newStaff("s1", domain.RoleSurgeon, "08:00", "17:00", domain.SpecialtyCardiology)
	ortho := newStaff("s2", domain.RoleSurgeon, "08:00", "17:00", domain.SpecialtyOrthopedics)
	p := testPolicy(cardio, ortho)

	in := bookedLattice(DefaultCatalog(), p,
		newBooking("b1", 1, "procedure-room-1", domain.SlotAM, "08:00", "12:00", assign(cardio, "08:00", "12:00")),
		newBooking("b2", 1, "procedure-room-1", domain.SlotPM, "13:00", "17:00", assign(cardio, "13:00", "17:00")),
	)

	_, moves := balancingPass{}.Apply(in, p)

	assert.Zero(t, moves)
}

func TestVariance(t *testing.T) {
	a := newStaff("a", domain.RoleNurse, "08:00", "17:00")
	b := newStaff("b", domain.RoleNurse, "08:00", "17:00")
	group := []*domain.StaffMember{a, b}

	assert.InDelta(t, 16.0, variance(group, staffLoad{"a": 8, "b": 0}), 1e-9)
	assert.InDelta(t, 0.0, variance(group, staffLoad{"a": 4, "b": 4}), 1e-9)
	assert.Zero(t, variance(nil, staffLoad{}))
}

func TestEngineOptimize_RunsEnabledPassesInOrder(t *testing.T) {
	recorder := &mockRecorder{}
	var order []string
	recorder.On("ObserveOptimizerMoves", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, args.String(0))
	})

	engine := NewEngine(nopLogger{}, recorder)
	p := testPolicy()
	p.settings.MaximizeRoomUtilization = false

	engine.optimize(bookedLattice(DefaultCatalog(), p), p)

	assert.Equal(t, []string{PassUrgentPrioritization, PassOvertimeReduction, PassWorkloadBalancing}, order)
}
