package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planilla-hr/planilla-api/internal/models"
)

func TestSettingsRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	payload := []byte(`{"dias_del_mes":30,"descuento_tardanza":10,"default_tipo_contrato":"planilla","default_pension":"ONP","default_sede":"Arequipa"}`)
	mock.ExpectQuery("SELECT value, updated_at FROM configurations").
		WithArgs("payroll_settings").
		WillReturnRows(sqlmock.NewRows([]string{"value", "updated_at"}).AddRow(payload, time.Now()))

	settings, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, settings.DaysInMonth)
	assert.InDelta(t, 10, settings.LateDiscount, 1e-9)
	assert.Equal(t, models.ContractPayroll, settings.DefaultContractType)
	assert.Equal(t, models.SchemeONP, settings.DefaultScheme)
	assert.Equal(t, "Arequipa", settings.DefaultSite)
}

func TestSettingsRepositoryLoadDefaultsWhenMissing(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	mock.ExpectQuery("SELECT value, updated_at FROM configurations").
		WithArgs("payroll_settings").
		WillReturnRows(sqlmock.NewRows([]string{"value", "updated_at"}))

	settings, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings().DaysInMonth, settings.DaysInMonth)
	assert.Equal(t, "Lima", settings.DefaultSite)
}

func TestSettingsRepositorySave(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	mock.ExpectExec("INSERT INTO configurations").
		WithArgs("payroll_settings", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	settings := models.DefaultSettings()
	settings.LateDiscount = 7.5
	require.NoError(t, repo.Save(context.Background(), &settings))
	assert.False(t, settings.UpdatedAt.IsZero())
}
