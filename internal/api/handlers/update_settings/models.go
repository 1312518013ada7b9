package update_settings

import (
	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/config"
)

// UpdateSettingsRequest HTTP request model; отсутствующая группа не меняется
type UpdateSettingsRequest struct {
	Constraints          *domain.Constraints          `json:"constraints,omitempty"`
	OptimizationSettings *domain.OptimizationSettings `json:"optimizationSettings,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID string) *config.UpdateSettingsRequest {
	return &config.UpdateSettingsRequest{
		UserID:       userID,
		Constraints:  r.Constraints,
		Optimization: r.OptimizationSettings,
	}
}
