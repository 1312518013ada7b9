package procedure

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
)

func TestRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"document"}).
		AddRow([]byte(`{"id":"cabg","name":"Coronary Artery Bypass","duration":240,"priority":"urgent","category":"cardiac","staffRequirements":[{"role":"surgeon","count":2,"specialties":["cardiology"]}],"roomRequirements":{"roomTypes":["operating"],"minSize":45}}`))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM procedures WHERE active = $1 ORDER BY id ASC")).
		WithArgs(true).
		WillReturnRows(rows)

	procedures, err := NewRepository(db).ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, procedures, 1)
	p := procedures[0]
	assert.Equal(t, 240, p.DurationMinutes)
	assert.Equal(t, domain.PriorityUrgent, p.Priority)
	require.Len(t, p.StaffRequirements, 1)
	assert.Equal(t, 2, p.StaffRequirements[0].Count)
	assert.Equal(t, []domain.RoomType{domain.RoomOperating}, p.RoomRequirements.RoomTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT document FROM procedures WHERE id").
		WithArgs("cabg").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{"id":"cabg","duration":240}`)))
	p, err := repo.GetByID(context.Background(), "cabg")
	require.NoError(t, err)
	assert.Equal(t, 240, p.DurationMinutes)

	mock.ExpectQuery("SELECT document FROM procedures WHERE id").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))
	_, err = repo.GetByID(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrProcedureNotFound)

	mock.ExpectQuery("SELECT document FROM procedures WHERE id").
		WithArgs("cabg").
		WillReturnError(errors.New("broken pipe"))
	_, err = repo.GetByID(context.Background(), "cabg")
	assert.ErrorIs(t, err, ErrScanRow)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO procedures (id,category,document) VALUES ($1,$2,$3)")).
		WithArgs("cabg", "cardiac", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRepository(db).Upsert(context.Background(), &domain.Procedure{ID: "cabg", Category: "cardiac"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
