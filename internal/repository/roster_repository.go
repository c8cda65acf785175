package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/planilla-hr/planilla-api/internal/models"
)

const rosterColumns = `dni, nombre, ocupacion, salario, sede, empresa, rubro, banco,
tipocontrato, pension, fechaingreso, numerocuenta, activo, updated_at`

// RosterRepository reads and maintains the people registry used to
// validate imported attendance rows.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// FindByNationalID resolves an active roster record by DNI.
func (r *RosterRepository) FindByNationalID(ctx context.Context, dni string) (*models.RosterRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM people WHERE dni = $1 AND activo = true`, rosterColumns)
	var rec models.RosterRecord
	if err := r.db.GetContext(ctx, &rec, query, dni); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SearchByName runs a full-text search over active roster names and
// returns the first hit. The query terms are AND-ed, matching the
// original registry lookup.
func (r *RosterRepository) SearchByName(ctx context.Context, name string) (*models.RosterRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM people
WHERE activo = true AND to_tsvector('simple', nombre) @@ plainto_tsquery('simple', $1)
ORDER BY dni ASC LIMIT 1`, rosterColumns)
	var rec models.RosterRecord
	if err := r.db.GetContext(ctx, &rec, query, strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns roster records matching the filter plus the total count.
func (r *RosterRepository) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRecord, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	addArg := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Active != nil {
		addArg("activo = $%d", *filter.Active)
	}
	if filter.BusinessLine != "" {
		addArg("rubro = $%d", filter.BusinessLine)
	}
	if filter.Company != "" {
		addArg("empresa = $%d", filter.Company)
	}
	if filter.Site != "" {
		addArg("sede = $%d", filter.Site)
	}
	if filter.ContractType != "" {
		addArg("tipocontrato = $%d", filter.ContractType)
	}
	if filter.Search != "" {
		addArg("(dni ILIKE '%%' || $%d || '%%' OR nombre ILIKE '%%' || $%[1]d || '%%')", filter.Search)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM people WHERE %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count roster: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM people WHERE %s ORDER BY nombre ASC`, rosterColumns, where)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	var records []models.RosterRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list roster: %w", err)
	}
	return records, total, nil
}

// Upsert inserts or updates a roster record keyed by DNI.
func (r *RosterRepository) Upsert(ctx context.Context, rec *models.RosterRecord) error {
	const query = `INSERT INTO people (dni, nombre, ocupacion, salario, sede, empresa, rubro, banco,
tipocontrato, pension, fechaingreso, numerocuenta, activo, updated_at)
VALUES (:dni, :nombre, :ocupacion, :salario, :sede, :empresa, :rubro, :banco,
:tipocontrato, :pension, :fechaingreso, :numerocuenta, :activo, :updated_at)
ON CONFLICT (dni)
DO UPDATE SET nombre = EXCLUDED.nombre, ocupacion = EXCLUDED.ocupacion, salario = EXCLUDED.salario,
              sede = EXCLUDED.sede, empresa = EXCLUDED.empresa, rubro = EXCLUDED.rubro,
              banco = EXCLUDED.banco, tipocontrato = EXCLUDED.tipocontrato, pension = EXCLUDED.pension,
              fechaingreso = EXCLUDED.fechaingreso, numerocuenta = EXCLUDED.numerocuenta,
              activo = EXCLUDED.activo, updated_at = EXCLUDED.updated_at`
	rec.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("upsert roster record: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a roster record; imports only ever see active rows.
func (r *RosterRepository) Deactivate(ctx context.Context, dni string) error {
	const query = `UPDATE people SET activo = false, updated_at = $2 WHERE dni = $1`
	result, err := r.db.ExecContext(ctx, query, dni, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate roster record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate roster record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("roster record %s not found", dni)
	}
	return nil
}
