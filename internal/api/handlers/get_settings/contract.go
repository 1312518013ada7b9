package get_settings

import (
	"context"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

type SettingsService interface {
	Effective(ctx context.Context) (*domain.SchedulerSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
