package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
)

type fakeSettingsRepo struct {
	stored *models.Settings
	saves  int
}

func (f *fakeSettingsRepo) Load(context.Context) (*models.Settings, error) {
	if f.stored == nil {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	copied := *f.stored
	return &copied, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, settings *models.Settings) error {
	copied := *settings
	f.stored = &copied
	f.saves++
	return nil
}

func TestSettingsCurrentLoadsOnce(t *testing.T) {
	repo := &fakeSettingsRepo{stored: &models.Settings{
		DaysInMonth:         30,
		LateDiscount:        7,
		DefaultContractType: models.ContractPayroll,
		DefaultScheme:       models.SchemeONP,
		DefaultSite:         "Cusco",
	}}
	svc := NewSettingsService(repo, zap.NewNop())

	settings, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, settings.DaysInMonth)
	assert.Equal(t, "Cusco", settings.DefaultSite)

	// repository changes are not re-read once cached
	repo.stored.DaysInMonth = 31
	settings, err = svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, settings.DaysInMonth)
}

func TestSettingsUpdateValidates(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, zap.NewNop())

	valid := models.DefaultSettings()
	valid.LateDiscount = 10
	updated, err := svc.Update(context.Background(), valid)
	require.NoError(t, err)
	assert.InDelta(t, 10, updated.LateDiscount, 1e-9)

	bad := models.DefaultSettings()
	bad.DaysInMonth = 27
	_, err = svc.Update(context.Background(), bad)
	assert.Error(t, err)

	bad = models.DefaultSettings()
	bad.LateDiscount = -1
	_, err = svc.Update(context.Background(), bad)
	assert.Error(t, err)

	bad = models.DefaultSettings()
	bad.DefaultScheme = "XYZ"
	_, err = svc.Update(context.Background(), bad)
	assert.Error(t, err)
}

func TestRaiseDaysInMonthOnlyRaises(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, zap.NewNop())

	require.NoError(t, svc.RaiseDaysInMonth(context.Background(), 31))
	settings, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 31, settings.DaysInMonth)
	assert.Equal(t, 1, repo.saves)

	// lower values are ignored and not persisted
	require.NoError(t, svc.RaiseDaysInMonth(context.Background(), 29))
	settings, err = svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 31, settings.DaysInMonth)
	assert.Equal(t, 1, repo.saves)
}
