package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	configRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/config"
)

// Service сервис настроек движка расписаний.
// Сохраненные в БД настройки имеют приоритет над значениями из config.toml.
type Service struct {
	repo     SettingsRepository
	cache    ScheduleCache
	defaults domain.SchedulerSettings
	logger   Logger
}

// NewService создает сервис; constraints и optimization берутся из файла конфигурации
func NewService(
	repo SettingsRepository,
	cache ScheduleCache,
	constraints domain.Constraints,
	optimization domain.OptimizationSettings,
	logger Logger,
) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		defaults: domain.SchedulerSettings{
			ID:           domain.DefaultSettingsID,
			Constraints:  constraints,
			Optimization: optimization,
		},
		logger: logger,
	}
}

// Effective возвращает действующие настройки: сохраненные или значения по умолчанию
func (s *Service) Effective(ctx context.Context) (*domain.SchedulerSettings, error) {
	settings, err := s.repo.GetByID(ctx, domain.DefaultSettingsID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			defaults := s.defaults
			return &defaults, nil
		}
		s.logger.Error("Settings: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}

// Update частично обновляет настройки и сбрасывает кэш расписаний
func (s *Service) Update(ctx context.Context, req *UpdateSettingsRequest) (*domain.SchedulerSettings, error) {
	s.logger.Info("Settings: update by user=%s, constraints=%t, optimization=%t",
		req.UserID, req.Constraints != nil, req.Optimization != nil)

	if req.Constraints == nil && req.Optimization == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	current, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.UpdatedBy = req.UserID
	if req.Constraints != nil {
		updated.Constraints = *req.Constraints
	}
	if req.Optimization != nil {
		updated.Optimization = *req.Optimization
	}

	if err := updated.Validate(); err != nil {
		s.logger.Warn("Settings: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.repo.Upsert(ctx, &updated)
	if err != nil {
		s.logger.Error("Settings: failed to save settings: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// Все закэшированные расписания построены со старыми настройками
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("Settings: failed to invalidate schedule cache: %v", err)
	}

	s.logger.Info("Settings: updated by user=%s", req.UserID)
	return saved, nil
}
