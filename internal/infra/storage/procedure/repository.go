package procedure

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

const table = "procedures"

// Repository справочник процедур (JSONB документы)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActive возвращает активные процедуры, отсортированные по ID
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Procedure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("document").
		From(table).
		Where(squirrel.Eq{"active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	procedures := make([]*domain.Procedure, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}

		var p domain.Procedure
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("%w: ListActive - unmarshal document: %v", ErrScanRow, err)
		}
		procedures = append(procedures, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return procedures, nil
}

// GetByID получает процедуру по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Procedure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("document").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var doc []byte
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProcedureNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	var p domain.Procedure
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("%w: GetByID - unmarshal document: %v", ErrScanRow, err)
	}

	return &p, nil
}

// Upsert создает или обновляет процедуру
func (r *Repository) Upsert(ctx context.Context, p *domain.Procedure) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: Upsert - marshal document: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "category", "document").
		Values(p.ID, p.Category, doc).
		Suffix("ON CONFLICT (id) DO UPDATE SET category = EXCLUDED.category, document = EXCLUDED.document, active = TRUE, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
