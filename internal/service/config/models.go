package config

import "github.com/m04kA/SMC-SurgeryScheduler/internal/domain"

// UpdateSettingsRequest запрос на обновление настроек движка.
// Поля опциональны: обновляются только переданные группы.
type UpdateSettingsRequest struct {
	UserID       string
	Constraints  *domain.Constraints
	Optimization *domain.OptimizationSettings
}
