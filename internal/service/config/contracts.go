package config

import (
	"context"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек движка
type SettingsRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SchedulerSettings, error)
	Upsert(ctx context.Context, settings *domain.SchedulerSettings) (*domain.SchedulerSettings, error)
}

// ScheduleCache интерфейс кэша расписаний
type ScheduleCache interface {
	InvalidateAll(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
