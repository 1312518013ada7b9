package domain

// Priority represents the clinical priority tier of a procedure or booking
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns the ordinal of the priority (low=1 .. urgent=4, unknown=0)
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// Procedure represents a medical procedure type. Immutable input.
type Procedure struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Code                  string                 `json:"code,omitempty"`
	DurationMinutes       int                    `json:"duration"`
	StaffRequirements     []StaffRequirement     `json:"staffRequirements"`
	EquipmentRequirements []EquipmentRequirement `json:"equipmentRequirements"`
	RoomRequirements      RoomRequirement        `json:"roomRequirements"`
	Priority              Priority               `json:"priority"`
	EstimatedCost         float64                `json:"estimatedCost,omitempty"`
	Category              string                 `json:"category"`
}

// StaffRequirement describes how many staff of a role (and specialties) a procedure needs
type StaffRequirement struct {
	Role          StaffRole   `json:"role"`
	Count         int         `json:"count"`
	Specialties   []Specialty `json:"specialties,omitempty"`
	MinExperience int         `json:"minExperience,omitempty"`
}

// EquipmentRequirement describes equipment with its setup and cleanup durations
type EquipmentRequirement struct {
	EquipmentID        string `json:"equipmentId"`
	Name               string `json:"name"`
	Quantity           int    `json:"quantity"`
	SetupTimeMinutes   int    `json:"setupTime"`
	CleanupTimeMinutes int    `json:"cleanupTime"`
}

// RoomRequirement restricts the rooms a procedure can take place in
type RoomRequirement struct {
	RoomTypes       []RoomType `json:"roomTypes"`
	MinSize         int        `json:"minSize"`
	SpecialFeatures []string   `json:"specialFeatures"`
}

// TotalMinutes returns the duration including equipment setup and cleanup
func (p *Procedure) TotalMinutes() int {
	total := p.DurationMinutes
	for _, eq := range p.EquipmentRequirements {
		total += eq.SetupTimeMinutes + eq.CleanupTimeMinutes
	}
	return total
}

// AllowsRoom returns true if the room satisfies type, size and feature requirements
func (r *RoomRequirement) AllowsRoom(room *Room) bool {
	if len(r.RoomTypes) > 0 {
		typeOK := false
		for _, t := range r.RoomTypes {
			if t == room.Type {
				typeOK = true
				break
			}
		}
		if !typeOK {
			return false
		}
	}

	if room.Size < r.MinSize {
		return false
	}

	for _, f := range r.SpecialFeatures {
		if !room.HasFeature(f) {
			return false
		}
	}

	return true
}
