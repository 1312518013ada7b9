package config

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/psqlbuilder"
)

const table = "scheduler_settings"

// Repository репозиторий настроек движка расписаний.
// Ограничения и переключатели оптимизации хранятся JSONB, чтобы новые поля не требовали миграций.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает настройки по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.SchedulerSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"constraints",
		"optimization",
		"updated_by",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		settings     domain.SchedulerSettings
		constraints  []byte
		optimization []byte
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&constraints,
		&optimization,
		&settings.UpdatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(constraints, &settings.Constraints); err != nil {
		return nil, fmt.Errorf("%w: GetByID - unmarshal constraints: %v", ErrScanRow, err)
	}
	if err := json.Unmarshal(optimization, &settings.Optimization); err != nil {
		return nil, fmt.Errorf("%w: GetByID - unmarshal optimization: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// Upsert сохраняет настройки, перезаписывая предыдущие с тем же ID
func (r *Repository) Upsert(ctx context.Context, settings *domain.SchedulerSettings) (*domain.SchedulerSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	constraints, err := json.Marshal(settings.Constraints)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal constraints: %v", ErrBuildQuery, err)
	}
	optimization, err := json.Marshal(settings.Optimization)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal optimization: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "constraints", "optimization", "updated_by").
		Values(settings.ID, constraints, optimization, settings.UpdatedBy).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			constraints = EXCLUDED.constraints,
			optimization = EXCLUDED.optimization,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	saved := *settings
	saved.CreatedAt = createdAt.Time
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}
