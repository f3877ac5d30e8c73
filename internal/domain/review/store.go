package review

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"folha/internal/apperr"
	"folha/internal/domain/sheet"
	"folha/internal/platform/cache"
)

type Store struct {
	DB    *pgxpool.Pool
	Cache *cache.Cache
}

func NewStore(pool *pgxpool.Pool, c *cache.Cache) *Store {
	return &Store{DB: pool, Cache: c}
}

// employeeParam maps the API-facing overall id onto the stored NULL.
func employeeParam(employeeID int64) any {
	if employeeID == OverallEmployeeID {
		return nil
	}
	return employeeID
}

func (s *Store) Get(ctx context.Context, worksiteID, employeeID int64, month time.Time) (Status, error) {
	out := Status{
		WorksiteID: worksiteID,
		EmployeeID: employeeID,
		Month:      sheet.MonthOf(month),
		Status:     StatusPending,
	}
	err := s.DB.QueryRow(ctx, `
    SELECT status, COALESCE(comment, ''), entries_completed, updated_at
    FROM audit_status
    WHERE worksite_id = $1 AND employee_id IS NOT DISTINCT FROM $2 AND month = $3
  `, worksiteID, employeeParam(employeeID), sheet.MonthOf(month)).
		Scan(&out.Status, &out.Comment, &out.EntriesCompleted, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, nil
		}
		return out, apperr.Repository(err)
	}
	return out, nil
}

// Upsert reads the current row under lock, merges the patch and writes the
// result, all in one serializable transaction. It returns the merged row
// and the names of the fields that changed.
func (s *Store) Upsert(ctx context.Context, worksiteID, employeeID int64, month time.Time, patch Patch) (Status, []string, error) {
	month = sheet.MonthOf(month)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return Status{}, nil, apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing := Status{
		WorksiteID: worksiteID,
		EmployeeID: employeeID,
		Month:      month,
		Status:     StatusPending,
	}
	err = tx.QueryRow(ctx, `
    SELECT status, COALESCE(comment, ''), entries_completed
    FROM audit_status
    WHERE worksite_id = $1 AND employee_id IS NOT DISTINCT FROM $2 AND month = $3
    FOR UPDATE
  `, worksiteID, employeeParam(employeeID), month).
		Scan(&existing.Status, &existing.Comment, &existing.EntriesCompleted)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Status{}, nil, apperr.Repository(err)
	}

	merged, changed := Merge(existing, patch)

	if _, err := tx.Exec(ctx, `
    INSERT INTO audit_status (worksite_id, employee_id, month, status, comment, entries_completed)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (worksite_id, month, employee_key) DO UPDATE
      SET status = EXCLUDED.status, comment = EXCLUDED.comment,
          entries_completed = EXCLUDED.entries_completed, updated_at = now()
  `, worksiteID, employeeParam(employeeID), month, merged.Status, merged.Comment, merged.EntriesCompleted); err != nil {
		return Status{}, nil, apperr.Repository(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Status{}, nil, apperr.Repository(err)
	}
	s.Cache.Purge()
	return merged, changed, nil
}

// ResetCompletion flips every per-employee completion flag of the month
// back to false. The overall row is never touched.
func (s *Store) ResetCompletion(ctx context.Context, worksiteID int64, month time.Time) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE audit_status SET entries_completed = false, updated_at = now()
    WHERE worksite_id = $1 AND month = $2 AND employee_id IS NOT NULL
  `, worksiteID, sheet.MonthOf(month))
	if err != nil {
		return 0, apperr.Repository(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Repository(err)
	}
	s.Cache.Purge()
	return tag.RowsAffected(), nil
}

func (s *Store) ListMonth(ctx context.Context, worksiteID int64, month time.Time) ([]Status, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(employee_id, 0), status, COALESCE(comment, ''), entries_completed, updated_at
    FROM audit_status
    WHERE worksite_id = $1 AND month = $2
    ORDER BY employee_id NULLS FIRST
  `, worksiteID, sheet.MonthOf(month))
	if err != nil {
		return nil, apperr.Repository(err)
	}
	defer rows.Close()

	var out []Status
	for rows.Next() {
		s := Status{WorksiteID: worksiteID, Month: sheet.MonthOf(month)}
		if err := rows.Scan(&s.EmployeeID, &s.Status, &s.Comment, &s.EntriesCompleted, &s.UpdatedAt); err != nil {
			return nil, apperr.Repository(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// OverallApproved implements the sheet state machine's approval check.
func (s *Store) OverallApproved(ctx context.Context, worksiteID int64, month time.Time) (bool, error) {
	overall, err := s.Get(ctx, worksiteID, OverallEmployeeID, month)
	if err != nil {
		return false, err
	}
	return overall.Status == StatusApproved, nil
}
