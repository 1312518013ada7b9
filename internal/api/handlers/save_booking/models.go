package save_booking

import (
	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	saveBooking "github.com/m04kA/SMC-SurgeryScheduler/internal/usecase/save_booking"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

// SaveBookingRequest HTTP request model
type SaveBookingRequest struct {
	Date          string                 `json:"date"`
	WeekNumber    int                    `json:"weekNumber"`
	RoomID        string                 `json:"roomId"`
	SlotType      string                 `json:"timeSlotType"`
	ProcedureID   string                 `json:"procedureId"`
	AssignedStaff []AssignedStaffRequest `json:"assignedStaff,omitempty"`
	StartTime     types.TimeString       `json:"startTime"`
	EndTime       types.TimeString       `json:"endTime"`
	Status        string                 `json:"status,omitempty"`
	Priority      string                 `json:"priority,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
}

// AssignedStaffRequest назначение сотрудника
type AssignedStaffRequest struct {
	StaffID     string           `json:"staffId"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	IsConfirmed bool             `json:"isConfirmed"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *SaveBookingRequest) ToUseCaseRequest(userID string) *saveBooking.Request {
	staff := make([]saveBooking.StaffAssignment, 0, len(r.AssignedStaff))
	for _, a := range r.AssignedStaff {
		staff = append(staff, saveBooking.StaffAssignment{
			StaffID:     a.StaffID,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			IsConfirmed: a.IsConfirmed,
		})
	}

	return &saveBooking.Request{
		UserID:      userID,
		Date:        r.Date,
		WeekNumber:  r.WeekNumber,
		RoomID:      r.RoomID,
		SlotType:    domain.SlotType(r.SlotType),
		ProcedureID: r.ProcedureID,
		Staff:       staff,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      domain.BookingStatus(r.Status),
		Priority:    domain.Priority(r.Priority),
		Notes:       r.Notes,
	}
}
