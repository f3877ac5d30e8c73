package sheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"folha/internal/apperr"
	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/platform/cache"
)

// ApprovalChecker reports whether the overall audit status of a
// (worksite, month) is approved. Implemented by the review store.
type ApprovalChecker interface {
	OverallApproved(ctx context.Context, worksiteID int64, month time.Time) (bool, error)
}

type Service struct {
	DB       *pgxpool.Pool
	Cache    *cache.Cache
	Log      *audit.Service
	Approval ApprovalChecker
}

func NewService(pool *pgxpool.Pool, c *cache.Cache, log *audit.Service, approval ApprovalChecker) *Service {
	return &Service{DB: pool, Cache: c, Log: log, Approval: approval}
}

// Get returns the sheet for the pair, defaulting to NotSent when no row
// exists yet.
func (s *Service) Get(ctx context.Context, worksiteID int64, month time.Time) (MonthlySheet, error) {
	out := MonthlySheet{WorksiteID: worksiteID, Month: MonthOf(month), State: StateNotSent}
	err := s.DB.QueryRow(ctx, `
    SELECT state, submitted_at, submission_count
    FROM monthly_sheets
    WHERE worksite_id = $1 AND month = $2
  `, worksiteID, MonthOf(month)).Scan(&out.State, &out.SubmittedAt, &out.SubmissionCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, nil
		}
		return out, apperr.Repository(err)
	}
	return out, nil
}

// Writable reports whether the pair currently accepts entry writes.
func (s *Service) Writable(ctx context.Context, worksiteID int64, month time.Time) (bool, string, error) {
	current, err := s.Get(ctx, worksiteID, month)
	if err != nil {
		return false, "", err
	}
	return CanWrite(current.State), current.State, nil
}

// Submit moves NotSent/ReturnedForRevision to UnderAudit, stamping the
// submission time and bumping the monotonic submission counter.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, worksiteID int64, month time.Time) (MonthlySheet, error) {
	month = MonthOf(month)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return MonthlySheet{}, apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	state := StateNotSent
	err = tx.QueryRow(ctx, `
    SELECT state FROM monthly_sheets
    WHERE worksite_id = $1 AND month = $2
    FOR UPDATE
  `, worksiteID, month).Scan(&state)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return MonthlySheet{}, apperr.Repository(err)
	}
	if !CanSubmit(state) {
		return MonthlySheet{}, apperr.SheetClosed(state)
	}

	out := MonthlySheet{WorksiteID: worksiteID, Month: month, State: StateUnderAudit}
	err = tx.QueryRow(ctx, `
    INSERT INTO monthly_sheets (worksite_id, month, state, submitted_at, submission_count)
    VALUES ($1, $2, $3, now(), 1)
    ON CONFLICT (worksite_id, month) DO UPDATE
      SET state = $3, submitted_at = now(),
          submission_count = monthly_sheets.submission_count + 1
    RETURNING submitted_at, submission_count
  `, worksiteID, month, StateUnderAudit).Scan(&out.SubmittedAt, &out.SubmissionCount)
	if err != nil {
		return MonthlySheet{}, apperr.Repository(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return MonthlySheet{}, apperr.Repository(err)
	}
	s.Cache.Purge()
	s.Log.Record(ctx, actor.LogName(), audit.ActionSubmitSheet,
		fmt.Sprintf("submitted sheet %s (submission #%d)", month.Format("2006-01"), out.SubmissionCount),
		"monthly_sheets", worksiteID)
	return out, nil
}

// Return unlocks a sheet under audit for revision. Fired by the review
// manager when the overall status moves back to pending or review-again.
func (s *Service) Return(ctx context.Context, actor auth.Actor, worksiteID int64, month time.Time) error {
	month = MonthOf(month)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE monthly_sheets SET state = $1
    WHERE worksite_id = $2 AND month = $3 AND state = $4
  `, StateReturned, worksiteID, month, StateUnderAudit)
	if err != nil {
		return apperr.Repository(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Validation("sheet is not under audit")
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Repository(err)
	}
	s.Cache.Purge()
	s.Log.Record(ctx, actor.LogName(), audit.ActionReturnSheet,
		fmt.Sprintf("returned sheet %s for revision", month.Format("2006-01")),
		"monthly_sheets", worksiteID)
	return nil
}

// Finalize is the terminal transition: it requires an approved overall
// status, archives every entry of the month and locks the sheet. Archival
// and the state change commit together or not at all.
func (s *Service) Finalize(ctx context.Context, actor auth.Actor, worksiteID int64, month time.Time) error {
	month = MonthOf(month)

	approved, err := s.Approval.OverallApproved(ctx, worksiteID, month)
	if err != nil {
		return err
	}
	if !approved {
		return apperr.Validation("overall audit status must be approved before finalizing")
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Repository(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var state string
	err = tx.QueryRow(ctx, `
    SELECT state FROM monthly_sheets
    WHERE worksite_id = $1 AND month = $2
    FOR UPDATE
  `, worksiteID, month).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.Validation("sheet was never submitted")
		}
		return apperr.Repository(err)
	}
	if state != StateUnderAudit {
		return apperr.Validation("sheet must be under audit to finalize, currently %s", state)
	}

	if _, err := tx.Exec(ctx, `
    UPDATE entries SET archived = true
    WHERE worksite_id = $1
      AND date_trunc('month', service_date)::date = $2
      AND NOT archived
  `, worksiteID, month); err != nil {
		return apperr.Repository(err)
	}

	if _, err := tx.Exec(ctx, `
    UPDATE monthly_sheets SET state = $1
    WHERE worksite_id = $2 AND month = $3
  `, StateFinalized, worksiteID, month); err != nil {
		return apperr.Repository(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Repository(err)
	}
	s.Cache.Purge()
	s.Log.Record(ctx, actor.LogName(), audit.ActionFinalizeSheet,
		fmt.Sprintf("finalized sheet %s and archived its entries", month.Format("2006-01")),
		"monthly_sheets", worksiteID)
	return nil
}
