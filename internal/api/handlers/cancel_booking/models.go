package cancel_booking

import (
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/ptr"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID string) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: ptr.Value(r.CancellationReason),
	}
}
