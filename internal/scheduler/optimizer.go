package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// Названия проходов оптимизатора
const (
	PassUrgentPrioritization = "urgent_prioritization"
	PassRoomPacking          = "room_packing"
	PassOvertimeReduction    = "overtime_reduction"
	PassWorkloadBalancing    = "workload_balancing"
)

// maxBalancingRounds ограничивает число переназначений на группу за неделю
const maxBalancingRounds = 1000

// optimizationPass чистое преобразование сетки.
// Проход может перемещать бронирования и переназначать персонал, но не удаляет бронирования
// и не пересчитывает конфликты.
type optimizationPass interface {
	Name() string
	Enabled(settings domain.OptimizationSettings) bool
	Apply(lattice []*domain.Week, p *policy) ([]*domain.Week, int)
}

// defaultPasses проходы в фиксированном порядке
func defaultPasses() []optimizationPass {
	return []optimizationPass{
		urgentPass{},
		packingPass{},
		overtimePass{},
		balancingPass{},
	}
}

// optimize последовательно применяет включенные проходы
func (e *Engine) optimize(lattice []*domain.Week, p *policy) []*domain.Week {
	for _, pass := range e.passes {
		if !pass.Enabled(p.settings) {
			continue
		}
		var moves int
		lattice, moves = pass.Apply(lattice, p)
		e.recorder.ObserveOptimizerMoves(pass.Name(), moves)
		if moves > 0 {
			e.logger.Info("Scheduler: optimizer pass %s made %d moves", pass.Name(), moves)
		}
	}
	return lattice
}

// moveBooking переносит бронирование вместе с его конфликтами в свободный слот того же типа
func moveBooking(from slotRef, to slotRef) {
	booking := from.slot.Booking
	booking.RoomID = to.room.ID
	booking.SlotType = to.slot.Type

	to.slot.Booking = booking
	to.slot.Conflicts = from.slot.Conflicts
	from.slot.Booking = nil
	from.slot.Conflicts = []domain.SchedulingConflict{}
}

// swapBookings меняет местами бронирования двух слотов одного типа
func swapBookings(a slotRef, b slotRef) {
	ab, bb := a.slot.Booking, b.slot.Booking
	ab.RoomID, bb.RoomID = b.room.ID, a.room.ID

	a.slot.Booking, b.slot.Booking = bb, ab
	a.slot.Conflicts, b.slot.Conflicts = b.slot.Conflicts, a.slot.Conflicts
}

// roomFits проверяет, что помещение доступно и подходит процедуре
func roomFits(room *domain.Room, procedure *domain.Procedure) bool {
	return room.Availability.IsAvailable && procedure.RoomRequirements.AllowsRoom(room)
}

// roomBusy проверяет, есть ли в помещении другое бронирование, пересекающееся с окном бронирования
func roomBusy(room *domain.Room, booking *domain.Booking) bool {
	for _, s := range room.TimeSlots {
		if s.Booking == nil || s.Booking == booking {
			continue
		}
		if overlaps(s.Booking.StartTime, s.Booking.EndTime, booking.StartTime, booking.EndTime) {
			return true
		}
	}
	return false
}

// urgentPass переносит срочные бронирования из неподходящих помещений
// в первое подходящее помещение недели с тем же типом слота.
// Свободный слот предпочтительнее; иначе вытесняется наименее приоритетное несрочное бронирование,
// которому подходит исходное помещение.
type urgentPass struct{}

func (urgentPass) Name() string { return PassUrgentPrioritization }

func (urgentPass) Enabled(s domain.OptimizationSettings) bool { return s.PrioritizeUrgentCases }

func (urgentPass) Apply(in []*domain.Week, _ *policy) ([]*domain.Week, int) {
	lattice := cloneLattice(in)
	moves := 0

	for _, week := range lattice {
		for _, ref := range bookedSlots(week) {
			booking := ref.slot.Booking
			if booking == nil || !booking.IsUrgent() || roomFits(ref.room, &booking.Procedure) {
				continue
			}

			var free, victim *slotRef
			for _, room := range week.Rooms {
				if room == ref.room || !roomFits(room, &booking.Procedure) {
					continue
				}
				slot, ok := room.Slot(ref.slot.Type)
				if !ok {
					continue
				}
				target := slotRef{week: week, room: room, slot: slot}

				if !slot.IsBooked() {
					if !roomBusy(room, booking) {
						free = &target
						break
					}
					continue
				}

				occupant := slot.Booking
				if occupant.IsUrgent() || !roomFits(ref.room, &occupant.Procedure) {
					continue
				}
				if victim == nil || occupant.Priority.Rank() < victim.slot.Booking.Priority.Rank() {
					victim = &target
				}
			}

			switch {
			case free != nil:
				moveBooking(ref, *free)
				moves++
			case victim != nil:
				swapBookings(ref, *victim)
				moves++
			}
		}
	}

	return lattice, moves
}

// packingPass переносит несрочные бронирования из менее загруженных помещений
// в свободные слоты того же типа в более загруженных.
// Число помещений с бронированиями не растет.
type packingPass struct{}

func (packingPass) Name() string { return PassRoomPacking }

func (packingPass) Enabled(s domain.OptimizationSettings) bool { return s.MaximizeRoomUtilization }

func (packingPass) Apply(in []*domain.Week, _ *policy) ([]*domain.Week, int) {
	lattice := cloneLattice(in)
	moves := 0

	for _, week := range lattice {
		for moved := true; moved; {
			moved = false

			// Источники - от наименее загруженных помещений
			sources := make([]*domain.Room, 0, len(week.Rooms))
			for _, r := range week.Rooms {
				if r.BookedSlots() > 0 {
					sources = append(sources, r)
				}
			}
			sort.SliceStable(sources, func(i, j int) bool {
				return sources[i].BookedSlots() < sources[j].BookedSlots()
			})

		search:
			for _, src := range sources {
				for _, slot := range src.TimeSlots {
					booking := slot.Booking
					if booking == nil || booking.IsUrgent() {
						continue
					}
					from := slotRef{week: week, room: src, slot: slot}

					for _, dst := range week.Rooms {
						if dst == src || dst.BookedSlots() <= src.BookedSlots() || !roomFits(dst, &booking.Procedure) {
							continue
						}
						target, ok := dst.Slot(slot.Type)
						if !ok || target.IsBooked() || roomBusy(dst, booking) {
							continue
						}

						moveBooking(from, slotRef{week: week, room: dst, slot: target})
						moves++
						moved = true
						break search
					}
				}
			}
		}
	}

	return lattice, moves
}

// staffLoad часы сотрудников в неделе: текущие часы плюс назначения недели
type staffLoad map[string]float64

// weekAssignment назначение сотрудника на бронирование недели
type weekAssignment struct {
	ref   slotRef
	index int // индекс в AssignedStaff
}

func (a weekAssignment) staff() *domain.AssignedStaff {
	return &a.ref.slot.Booking.AssignedStaff[a.index]
}

func (a weekAssignment) hours() float64 {
	start, end := assignmentWindow(a.ref.slot.Booking, a.staff())
	return float64(end.Sub(start)) / 60
}

// weekAssignments собирает назначения недели по сотрудникам
func weekAssignments(week *domain.Week) map[string][]weekAssignment {
	result := make(map[string][]weekAssignment)
	for _, ref := range bookedSlots(week) {
		for i := range ref.slot.Booking.AssignedStaff {
			id := ref.slot.Booking.AssignedStaff[i].StaffID
			result[id] = append(result[id], weekAssignment{ref: ref, index: i})
		}
	}
	return result
}

func computeLoad(p *policy, assignments map[string][]weekAssignment) staffLoad {
	load := make(staffLoad, len(p.staff))
	for _, s := range p.staff {
		load[s.ID] = s.CurrentHoursThisWeek
	}
	for id, list := range assignments {
		for _, a := range list {
			load[id] += a.hours()
		}
	}
	return load
}

// canTake проверяет, может ли сотрудник принять назначение: роль, специализации,
// доступность, отсутствие пересечений и лимит часов
func canTake(candidate *domain.StaffMember, a weekAssignment, date time.Time, assignments map[string][]weekAssignment, load staffLoad, p *policy) bool {
	booking := a.ref.slot.Booking
	current := a.staff()

	if candidate.ID == current.StaffID || candidate.Role != current.Role {
		return false
	}
	if !candidate.HasSpecialties(requiredSpecialties(&booking.Procedure, current.Role)) {
		return false
	}
	for _, as := range booking.AssignedStaff {
		if as.StaffID == candidate.ID {
			return false
		}
	}

	start, end := assignmentWindow(booking, current)
	if !IsAvailable(candidate, date, start, end) {
		return false
	}
	for _, other := range assignments[candidate.ID] {
		oStart, oEnd := assignmentWindow(other.ref.slot.Booking, other.staff())
		if overlaps(start, end, oStart, oEnd) {
			return false
		}
	}

	return load[candidate.ID]+a.hours() <= p.hoursBudget(candidate)
}

// requiredSpecialties объединение специализаций, требуемых процедурой для роли
func requiredSpecialties(procedure *domain.Procedure, role domain.StaffRole) []domain.Specialty {
	result := make([]domain.Specialty, 0)
	seen := make(map[domain.Specialty]struct{})
	for _, req := range procedure.StaffRequirements {
		if req.Role != role {
			continue
		}
		for _, sp := range req.Specialties {
			if _, ok := seen[sp]; !ok {
				seen[sp] = struct{}{}
				result = append(result, sp)
			}
		}
	}
	return result
}

// preferenceScore количество совпавших предпочтений: день, тип слота, тип помещения
func preferenceScore(s *domain.StaffMember, date time.Time, ref slotRef) int {
	score := 0
	if s.PrefersDay(date.Weekday()) {
		score++
	}
	if s.PrefersSlot(ref.slot.Type) {
		score++
	}
	if s.PrefersRoom(ref.room.Type) {
		score++
	}
	return score
}

// reassign передает назначение другому сотруднику. Новое назначение не подтверждено.
func reassign(a weekAssignment, to *domain.StaffMember, assignments map[string][]weekAssignment, load staffLoad) {
	current := a.staff()
	from := current.StaffID
	hours := a.hours()

	current.StaffID = to.ID
	current.Name = to.Name
	current.IsConfirmed = false

	list := assignments[from]
	for i := range list {
		if list[i].ref.slot == a.ref.slot && list[i].index == a.index {
			assignments[from] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	assignments[to.ID] = append(assignments[to.ID], a)

	load[from] -= hours
	load[to.ID] += hours
}

// overtimePass снимает назначения с сотрудников сверх лимита часов, начиная с наименее приоритетных
// бронирований, и передает их подходящей замене
type overtimePass struct{}

func (overtimePass) Name() string { return PassOvertimeReduction }

func (overtimePass) Enabled(s domain.OptimizationSettings) bool { return s.MinimizeStaffOvertime }

func (overtimePass) Apply(in []*domain.Week, p *policy) ([]*domain.Week, int) {
	lattice := cloneLattice(in)
	moves := 0

	for _, week := range lattice {
		date := week.ParsedDate()
		assignments := weekAssignments(week)
		load := computeLoad(p, assignments)

		for _, member := range p.staff {
			budget := p.hoursBudget(member)
			if load[member.ID] <= budget {
				continue
			}

			own := append([]weekAssignment{}, assignments[member.ID]...)
			sort.SliceStable(own, func(i, j int) bool {
				pi := own[i].ref.slot.Booking.Priority.Rank()
				pj := own[j].ref.slot.Booking.Priority.Rank()
				if pi != pj {
					return pi < pj
				}
				return own[i].ref.slot.ID < own[j].ref.slot.ID
			})

			for _, a := range own {
				if load[member.ID] <= budget {
					break
				}
				if replacement := pickCandidate(a, date, assignments, load, p); replacement != nil {
					reassign(a, replacement, assignments, load)
					moves++
				}
			}
		}
	}

	return lattice, moves
}

// pickCandidate выбирает замену: сначала по совпадению предпочтений (если включено),
// затем по наименьшей загрузке, затем по идентификатору
func pickCandidate(a weekAssignment, date time.Time, assignments map[string][]weekAssignment, load staffLoad, p *policy) *domain.StaffMember {
	candidates := make([]*domain.StaffMember, 0)
	for _, s := range p.staff {
		if canTake(s, a, date, assignments, load, p) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if p.settings.ConsiderStaffPreferences {
			si, sj := preferenceScore(candidates[i], date, a.ref), preferenceScore(candidates[j], date, a.ref)
			if si != sj {
				return si > sj
			}
		}
		if load[candidates[i].ID] != load[candidates[j].ID] {
			return load[candidates[i].ID] < load[candidates[j].ID]
		}
		return candidates[i].ID < candidates[j].ID
	})

	return candidates[0]
}

// balancingPass выравнивает часы внутри групп сотрудников с одинаковой ролью и набором специализаций.
// Назначение переходит от самого загруженного к наименее загруженному,
// только если дисперсия часов в группе строго уменьшается.
type balancingPass struct{}

func (balancingPass) Name() string { return PassWorkloadBalancing }

func (balancingPass) Enabled(s domain.OptimizationSettings) bool { return s.BalanceWorkload }

func (balancingPass) Apply(in []*domain.Week, p *policy) ([]*domain.Week, int) {
	lattice := cloneLattice(in)
	moves := 0
	groups := equivalenceGroups(p.staff)

	for _, week := range lattice {
		date := week.ParsedDate()
		assignments := weekAssignments(week)
		load := computeLoad(p, assignments)

		for _, group := range groups {
			for round := 0; round < maxBalancingRounds; round++ {
				if !balanceOnce(group, date, assignments, load, p) {
					break
				}
				moves++
			}
		}
	}

	return lattice, moves
}

// balanceOnce выполняет одно переназначение в группе, если оно уменьшает дисперсию
func balanceOnce(group []*domain.StaffMember, date time.Time, assignments map[string][]weekAssignment, load staffLoad, p *policy) bool {
	ordered := append([]*domain.StaffMember{}, group...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if load[ordered[i].ID] != load[ordered[j].ID] {
			return load[ordered[i].ID] > load[ordered[j].ID]
		}
		return ordered[i].ID < ordered[j].ID
	})

	most := ordered[0]
	before := variance(group, load)

	// Кандидаты на прием - от наименее загруженного
	for i := len(ordered) - 1; i > 0; i-- {
		least := ordered[i]
		if load[least.ID] >= load[most.ID] {
			break
		}

		for _, a := range assignments[most.ID] {
			if !canTake(least, a, date, assignments, load, p) {
				continue
			}

			hours := a.hours()
			load[most.ID] -= hours
			load[least.ID] += hours
			after := variance(group, load)
			load[most.ID] += hours
			load[least.ID] -= hours

			if after < before {
				reassign(a, least, assignments, load)
				return true
			}
		}
	}

	return false
}

// equivalenceGroups группирует сотрудников по роли и набору специализаций
func equivalenceGroups(staff []*domain.StaffMember) [][]*domain.StaffMember {
	index := make(map[string]int)
	groups := make([][]*domain.StaffMember, 0)

	for _, s := range staff {
		specialties := make([]string, 0, len(s.Specialties))
		for _, sp := range s.Specialties {
			specialties = append(specialties, string(sp))
		}
		sort.Strings(specialties)
		key := string(s.Role) + "|" + strings.Join(specialties, ",")

		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], s)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []*domain.StaffMember{s})
	}

	result := make([][]*domain.StaffMember, 0, len(groups))
	for _, g := range groups {
		if len(g) > 1 {
			result = append(result, g)
		}
	}
	return result
}

// variance дисперсия часов в группе
func variance(group []*domain.StaffMember, load staffLoad) float64 {
	if len(group) == 0 {
		return 0
	}
	mean := 0.0
	for _, s := range group {
		mean += load[s.ID]
	}
	mean /= float64(len(group))

	v := 0.0
	for _, s := range group {
		d := load[s.ID] - mean
		v += d * d
	}
	return v / float64(len(group))
}
