package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"folha/internal/apperr"
	"folha/internal/domain/sheet"
	"folha/internal/platform/cache"
	"folha/internal/platform/db"
)

type Store struct {
	DB    *pgxpool.Pool
	Cache *cache.Cache
}

func NewStore(pool *pgxpool.Pool, c *cache.Cache) *Store {
	return &Store{DB: pool, Cache: c}
}

func (s *Store) InsertEntries(ctx context.Context, worksiteID int64, inputs []Input) ([]int64, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		var id int64
		err := tx.QueryRow(ctx, `
      INSERT INTO entries (service_date, worksite_id, employee_id, kind, service_id,
                           description, quantity, unit_value, observation, archived)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,false)
      RETURNING id
    `, in.ServiceDate, worksiteID, in.EmployeeID, in.Kind, in.ServiceID,
			nullIfEmpty(in.Description), in.Quantity, in.UnitValue, in.Observation).Scan(&id)
		if err != nil {
			return nil, db.TranslateError(err, "entry")
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Repository(err)
	}
	s.Cache.Purge()
	return ids, nil
}

func (s *Store) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	var e Entry
	err := s.DB.QueryRow(ctx, entrySelect+" WHERE e.id = $1", id).Scan(entryFields(&e)...)
	if err != nil {
		return nil, db.TranslateError(err, "entry")
	}
	return &e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e Entry) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE entries
    SET service_date = $1, kind = $2, service_id = $3, description = $4,
        quantity = $5, unit_value = $6, observation = $7
    WHERE id = $8 AND NOT archived
  `, e.ServiceDate, e.Kind, e.ServiceID, nullIfEmpty(e.Description),
		e.Quantity, e.UnitValue, e.Observation, e.ID)
	if err != nil {
		return db.TranslateError(err, "entry")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("entry")
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Repository(err)
	}
	s.Cache.Purge()
	return nil
}

// DeleteEntries removes the given ids, restricted to the month the caller's
// write-gate was checked against. Ids belonging to other months are left
// untouched rather than deleted past a closed sheet.
func (s *Store) DeleteEntries(ctx context.Context, worksiteID int64, month time.Time, ids []int64) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    DELETE FROM entries
    WHERE worksite_id = $1
      AND date_trunc('month', service_date)::date = $2
      AND id = ANY($3)
      AND NOT archived
  `, worksiteID, sheet.MonthOf(month), ids)
	if err != nil {
		return 0, apperr.Repository(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Repository(err)
	}
	s.Cache.Purge()
	return tag.RowsAffected(), nil
}

func (s *Store) ListMonth(ctx context.Context, worksiteID int64, month time.Time) ([]Entry, error) {
	month = sheet.MonthOf(month)
	key := fmt.Sprintf("entries:%d:%s", worksiteID, month.Format("2006-01"))
	if cached, ok := s.Cache.Get(key); ok {
		return cached.([]Entry), nil
	}

	rows, err := s.DB.Query(ctx, entrySelect+`
    WHERE e.worksite_id = $1 AND date_trunc('month', e.service_date)::date = $2
    ORDER BY e.service_date, emp.name, e.id
  `, worksiteID, month)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(entryFields(&e)...); err != nil {
			return nil, apperr.Repository(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(err)
	}
	s.Cache.Set(key, out)
	return out, nil
}

// PerEmployeeGross sums partial values of non-gratification entries for the
// month, grouped by employee.
func (s *Store) PerEmployeeGross(ctx context.Context, worksiteID int64, month time.Time) (map[int64]decimal.Decimal, error) {
	return s.sumByEmployee(ctx, worksiteID, month, "kind <> 'gratification'")
}

// PerEmployeeBonus sums partial values of gratification entries.
func (s *Store) PerEmployeeBonus(ctx context.Context, worksiteID int64, month time.Time) (map[int64]decimal.Decimal, error) {
	return s.sumByEmployee(ctx, worksiteID, month, "kind = 'gratification'")
}

func (s *Store) sumByEmployee(ctx context.Context, worksiteID int64, month time.Time, kindCond string) (map[int64]decimal.Decimal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, COALESCE(SUM(quantity * unit_value), 0)
    FROM entries
    WHERE worksite_id = $1
      AND date_trunc('month', service_date)::date = $2
      AND `+kindCond+`
    GROUP BY employee_id
  `, worksiteID, sheet.MonthOf(month))
	if err != nil {
		return nil, apperr.Repository(err)
	}
	defer rows.Close()

	out := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var employeeID int64
		var total decimal.Decimal
		if err := rows.Scan(&employeeID, &total); err != nil {
			return nil, apperr.Repository(err)
		}
		out[employeeID] = total
	}
	return out, rows.Err()
}

const entrySelect = `
    SELECT e.id, e.created_at, e.service_date, e.worksite_id, e.employee_id,
           e.kind, e.service_id, COALESCE(e.description, ''),
           e.quantity, e.unit_value, e.observation, e.archived,
           emp.name, r.name,
           COALESCE(d.name, ''), COALESCE(s.description, ''), COALESCE(s.unit, '')
    FROM entries e
    JOIN employees emp ON emp.id = e.employee_id
    JOIN roles r ON r.id = emp.role_id
    LEFT JOIN services s ON s.id = e.service_id
    LEFT JOIN disciplines d ON d.id = s.discipline_id`

func entryFields(e *Entry) []any {
	return []any{
		&e.ID, &e.CreatedAt, &e.ServiceDate, &e.WorksiteID, &e.EmployeeID,
		&e.Kind, &e.ServiceID, &e.Description,
		&e.Quantity, &e.UnitValue, &e.Observation, &e.Archived,
		&e.EmployeeName, &e.RoleName,
		&e.DisciplineName, &e.ServiceDescription, &e.Unit,
	}
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
