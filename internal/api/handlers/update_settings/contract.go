package update_settings

import (
	"context"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/service/config"
)

type SettingsService interface {
	Update(ctx context.Context, req *config.UpdateSettingsRequest) (*domain.SchedulerSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
