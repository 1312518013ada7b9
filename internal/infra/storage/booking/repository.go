package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/psqlbuilder"
)

const table = "bookings"

// columns порядок колонок для SELECT, совпадает с scanBooking
var columns = []string{
	"id",
	"booking_date",
	"day_of_week",
	"week_number",
	"room_id",
	"slot_type",
	"procedure",
	"assigned_staff",
	"start_time",
	"end_time",
	"status",
	"priority",
	"notes",
}

// Repository репозиторий бронирований операционных.
// Бронирование однозначно определяется ключом (дата, неделя, помещение, тип слота).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет бронирование по ключу.
// Если по ключу уже есть запись, она перезаписывается, идентификатор сохраняется прежний.
func (r *Repository) Upsert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	procedure, err := json.Marshal(booking.Procedure)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal procedure: %v", ErrEncode, err)
	}
	staff, err := json.Marshal(nonNilStaff(booking.AssignedStaff))
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal assigned staff: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"booking_date",
			"day_of_week",
			"week_number",
			"room_id",
			"slot_type",
			"procedure_id",
			"procedure",
			"assigned_staff",
			"start_time",
			"end_time",
			"status",
			"priority",
			"notes",
		).
		Values(
			booking.ID,
			booking.Date,
			booking.DayOfWeek,
			booking.WeekNumber,
			booking.RoomID,
			booking.SlotType,
			booking.Procedure.ID,
			procedure,
			staff,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.Priority,
			booking.Notes,
		).
		Suffix(`ON CONFLICT (booking_date, week_number, room_id, slot_type) DO UPDATE SET
			day_of_week = EXCLUDED.day_of_week,
			procedure_id = EXCLUDED.procedure_id,
			procedure = EXCLUDED.procedure,
			assigned_staff = EXCLUDED.assigned_staff,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	saved := booking.Clone()
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&saved.ID); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return saved, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByKey получает бронирование по ключу
func (r *Repository) GetByKey(ctx context.Context, key domain.BookingKey) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByKey", keyCondition(key))
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// GetByMonth получает бронирования месяца с фильтрацией по дню недели.
// Отмененные бронирования возвращаются только при IncludeCancelled.
func (r *Repository) GetByMonth(ctx context.Context, filter domain.MonthBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	first := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"booking_date": first.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"booking_date": next.Format(domain.DateFormat)})

	// Фильтрация по дню недели
	if filter.DayOfWeek != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"day_of_week": filter.DayOfWeek})
	}

	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.
		OrderBy("week_number ASC", "room_id ASC", "slot_type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMonth - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMonth - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByStaff получает бронирования месяца, в которых назначен сотрудник
func (r *Repository) GetByStaff(ctx context.Context, staffID string, year int, month time.Month) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	member, err := json.Marshal([]map[string]string{{"staffId": staffID}})
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - marshal filter: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"booking_date": first.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"booking_date": next.Format(domain.DateFormat)}).
		Where(squirrel.Expr("assigned_staff @> ?::jsonb", string(member))).
		OrderBy("booking_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel переводит бронирование в статус cancelled.
// Запись остается в таблице, но перестает занимать слот при генерации расписания.
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "Cancel", query, args)
}

// DeleteByKey удаляет бронирование по ключу
func (r *Repository) DeleteByKey(ctx context.Context, key domain.BookingKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(keyCondition(key)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "DeleteByKey", query, args)
}

func (r *Repository) execAffecting(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func keyCondition(key domain.BookingKey) squirrel.Eq {
	return squirrel.Eq{
		"booking_date": key.Date,
		"week_number":  key.WeekNumber,
		"room_id":      key.RoomID,
		"slot_type":    key.SlotType,
	}
}

func nonNilStaff(staff []domain.AssignedStaff) []domain.AssignedStaff {
	if staff == nil {
		return []domain.AssignedStaff{}
	}
	return staff
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking     domain.Booking
		bookingDate time.Time
		procedure   []byte
		staff       []byte
		notes       sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&bookingDate,
		&booking.DayOfWeek,
		&booking.WeekNumber,
		&booking.RoomID,
		&booking.SlotType,
		&procedure,
		&staff,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Priority,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = bookingDate.Format(domain.DateFormat)
	if notes.Valid {
		booking.Notes = &notes.String
	}

	if len(procedure) > 0 {
		if err := json.Unmarshal(procedure, &booking.Procedure); err != nil {
			return nil, fmt.Errorf("unmarshal procedure: %w", err)
		}
	}
	if len(staff) > 0 {
		if err := json.Unmarshal(staff, &booking.AssignedStaff); err != nil {
			return nil, fmt.Errorf("unmarshal assigned staff: %w", err)
		}
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
