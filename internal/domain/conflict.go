package domain

// ConflictType represents the kind of scheduling constraint violation
type ConflictType string

const (
	ConflictStaffUnavailable     ConflictType = "staff_unavailable"
	ConflictRoomUnavailable      ConflictType = "room_unavailable"
	ConflictEquipmentUnavailable ConflictType = "equipment_unavailable"
	ConflictDoubleBooking        ConflictType = "double_booking"
	ConflictStaffOverlap         ConflictType = "staff_overlap"
)

// Severity represents how serious a conflict is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordinal of the severity (low=1 .. critical=4)
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// SchedulingConflict is a structured record of a constraint violation.
// Conflicts are data attached to the schedule, never errors.
type SchedulingConflict struct {
	Type                 ConflictType `json:"type"`
	Severity             Severity     `json:"severity"`
	Description          string       `json:"description"`
	AffectedElements     []string     `json:"affectedElements"`
	SuggestedResolutions []string     `json:"suggestedResolutions"`
}

// Affects returns true if the element identifier is among the affected elements
func (c *SchedulingConflict) Affects(id string) bool {
	for _, e := range c.AffectedElements {
		if e == id {
			return true
		}
	}
	return false
}
