package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/planilla-hr/planilla-api/internal/models"
)

const settingsKey = "payroll_settings"

// SettingsRepository persists the payroll settings as a single keyed
// JSON document. A missing row means defaults apply.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load fetches the stored settings, or the defaults when none were saved.
func (r *SettingsRepository) Load(ctx context.Context) (*models.Settings, error) {
	const query = `SELECT value, updated_at FROM configurations WHERE key = $1`
	var row struct {
		Value     []byte    `db:"value"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, settingsKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultSettings()
			return &defaults, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(row.Value, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	settings.UpdatedAt = row.UpdatedAt
	return &settings, nil
}

// Save upserts the settings document.
func (r *SettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	const query = `INSERT INTO configurations (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	settings.UpdatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, settingsKey, payload, settings.UpdatedAt); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
