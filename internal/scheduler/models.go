package scheduler

import (
	"time"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// Input снимок входных данных одного запуска генерации.
// Движок не хранит его между вызовами.
type Input struct {
	Year       int
	Month      time.Month
	Weekday    string // Monday .. Sunday
	Bookings   []*domain.Booking
	Staff      []*domain.StaffMember
	Procedures []*domain.Procedure

	Constraints domain.Constraints
	Settings    domain.OptimizationSettings

	// Catalog каталог помещений и слотов, nil - каталог по умолчанию
	Catalog *Catalog
}

// policy параметры, общие для всех стадий одного запуска
type policy struct {
	constraints domain.Constraints
	settings    domain.OptimizationSettings
	staff       []*domain.StaffMember
	staffByID   map[string]*domain.StaffMember
	procedures  []*domain.Procedure
}

func newPolicy(in *Input) *policy {
	p := &policy{
		constraints: in.Constraints,
		settings:    in.Settings,
		staffByID:   make(map[string]*domain.StaffMember, len(in.Staff)),
		procedures:  make([]*domain.Procedure, 0, len(in.Procedures)),
	}
	for _, s := range in.Staff {
		if s == nil {
			continue
		}
		p.staff = append(p.staff, s)
		p.staffByID[s.ID] = s
	}
	for _, proc := range in.Procedures {
		if proc != nil {
			p.procedures = append(p.procedures, proc)
		}
	}
	return p
}

// hoursBudget возвращает недельный лимит часов сотрудника
func (p *policy) hoursBudget(s *domain.StaffMember) float64 {
	budget := p.constraints.MaxStaffHoursPerWeek
	if s.MaxHoursPerWeek > 0 && s.MaxHoursPerWeek < budget {
		budget = s.MaxHoursPerWeek
	}
	return budget
}
