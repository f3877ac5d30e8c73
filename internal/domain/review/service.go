package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"folha/internal/apperr"
	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/domain/sheet"
)

type Service struct {
	store  *Store
	sheets *sheet.Service
	log    *audit.Service
}

func NewService(store *Store, sheets *sheet.Service, log *audit.Service) *Service {
	return &Service{store: store, sheets: sheets, log: log}
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) Get(ctx context.Context, worksiteID, employeeID int64, month time.Time) (Status, error) {
	return s.store.Get(ctx, worksiteID, employeeID, month)
}

func (s *Service) ListMonth(ctx context.Context, worksiteID int64, month time.Time) ([]Status, error) {
	return s.store.ListMonth(ctx, worksiteID, month)
}

// Upsert merges the patch into the (worksite, employee, month) row. Setting
// the overall status back to pending or review-again while the sheet is
// under audit fires the sheet's return transition. Approving never
// finalizes; that stays an explicit action.
func (s *Service) Upsert(ctx context.Context, actor auth.Actor, worksiteID, employeeID int64, month time.Time, patch Patch) (Status, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return Status{}, apperr.Validation("unknown audit status %q", *patch.Status)
	}

	merged, changed, err := s.store.Upsert(ctx, worksiteID, employeeID, month, patch)
	if err != nil {
		return Status{}, err
	}

	target := fmt.Sprintf("employee %d", employeeID)
	if employeeID == OverallEmployeeID {
		target = "overall"
	}
	detail := fmt.Sprintf("audit status for %s, %s: no field changes", target, sheet.MonthOf(month).Format("2006-01"))
	if len(changed) > 0 {
		detail = fmt.Sprintf("audit status for %s, %s: changed %s", target, sheet.MonthOf(month).Format("2006-01"), strings.Join(changed, ", "))
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionUpsertAuditStatus, detail, "audit_status", worksiteID)

	if employeeID == OverallEmployeeID && patch.Status != nil &&
		(merged.Status == StatusPending || merged.Status == StatusReviewAgain) {
		// Return's guarded UPDATE is the state check: a sheet that is not
		// (or no longer) under audit makes this a no-op instead of racing a
		// separate read against a concurrent finalize.
		if err := s.sheets.Return(ctx, actor, worksiteID, month); err != nil && !apperr.Is(err, apperr.KindValidation) {
			return Status{}, err
		}
	}

	return merged, nil
}

// SetCompletion flips one employee's completion flag for the month.
func (s *Service) SetCompletion(ctx context.Context, actor auth.Actor, worksiteID, employeeID int64, month time.Time, completed bool) (Status, error) {
	if employeeID == OverallEmployeeID {
		return Status{}, apperr.Validation("completion applies to employees, not the overall row")
	}
	return s.Upsert(ctx, actor, worksiteID, employeeID, month, Patch{EntriesCompleted: &completed})
}

// ResetCompletion clears every per-employee completion flag of the month.
func (s *Service) ResetCompletion(ctx context.Context, actor auth.Actor, worksiteID int64, month time.Time) error {
	count, err := s.store.ResetCompletion(ctx, worksiteID, month)
	if err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionResetCompletion,
		fmt.Sprintf("reset completion for %d employees in %s", count, sheet.MonthOf(month).Format("2006-01")),
		"audit_status", worksiteID)
	return nil
}
