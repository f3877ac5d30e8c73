package entry

import (
	"context"
	"fmt"
	"time"

	"folha/internal/apperr"
	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/domain/catalog"
	"folha/internal/domain/sheet"
)

type Service struct {
	store   *Store
	catalog *catalog.Store
	sheets  *sheet.Service
	log     *audit.Service
}

func NewService(store *Store, cat *catalog.Store, sheets *sheet.Service, log *audit.Service) *Service {
	return &Service{store: store, catalog: cat, sheets: sheets, log: log}
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) ensureWritable(ctx context.Context, worksiteID int64, month time.Time) error {
	writable, state, err := s.sheets.Writable(ctx, worksiteID, month)
	if err != nil {
		return err
	}
	if !writable {
		return apperr.SheetClosed(state)
	}
	return nil
}

// Create validates, classifies and inserts a batch of entries for one
// worksite. Service entries snapshot the service's current unit value, so
// later price changes never rewrite history.
func (s *Service) Create(ctx context.Context, actor auth.Actor, worksiteID int64, inputs []Input) ([]int64, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("no entries to create")
	}

	months := map[time.Time]bool{}
	normalized := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if in.ServiceDate.IsZero() {
			return nil, apperr.Validation("service date is required")
		}
		out, err := Classify(in)
		if err != nil {
			return nil, err
		}

		employee, err := s.catalog.GetEmployee(ctx, out.EmployeeID)
		if err != nil {
			return nil, err
		}
		if employee.WorksiteID != worksiteID {
			return nil, apperr.Validation("employee %q does not belong to this worksite", employee.Name)
		}

		if out.Kind == KindService {
			svc, err := s.catalog.GetService(ctx, *out.ServiceID)
			if err != nil {
				return nil, err
			}
			if !svc.Active {
				return nil, apperr.Validation("service %q is inactive", svc.Description)
			}
			out.UnitValue = svc.UnitValue
		}

		months[sheet.MonthOf(out.ServiceDate)] = true
		normalized = append(normalized, out)
	}

	for month := range months {
		if err := s.ensureWritable(ctx, worksiteID, month); err != nil {
			return nil, err
		}
	}

	ids, err := s.store.InsertEntries(ctx, worksiteID, normalized)
	if err != nil {
		return nil, err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionCreateEntries,
		fmt.Sprintf("created %d entries", len(ids)), "entries", firstID(ids))
	return ids, nil
}

// Update replaces the mutable fields of one entry in a single transaction.
// The (worksite, employee) attribution is immutable.
func (s *Service) Update(ctx context.Context, actor auth.Actor, entryID int64, in Input) error {
	existing, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if existing.Archived {
		return apperr.SheetClosed(sheet.StateFinalized)
	}

	in.EmployeeID = existing.EmployeeID
	if in.ServiceDate.IsZero() {
		in.ServiceDate = existing.ServiceDate
	}

	out, err := Classify(in)
	if err != nil {
		return err
	}
	if out.Kind == KindService {
		svc, err := s.catalog.GetService(ctx, *out.ServiceID)
		if err != nil {
			return err
		}
		// An edit that picks a different service snapshots the current
		// price; re-saving the same one keeps the original snapshot.
		if existing.ServiceID == nil || *existing.ServiceID != *out.ServiceID {
			out.UnitValue = svc.UnitValue
		}
	}

	if err := s.ensureWritable(ctx, existing.WorksiteID, existing.ServiceDate); err != nil {
		return err
	}
	if !out.ServiceDate.Equal(existing.ServiceDate) {
		if err := s.ensureWritable(ctx, existing.WorksiteID, out.ServiceDate); err != nil {
			return err
		}
	}

	updated := Entry{
		ID:          entryID,
		ServiceDate: out.ServiceDate,
		Kind:        out.Kind,
		ServiceID:   out.ServiceID,
		Description: out.Description,
		Quantity:    out.Quantity,
		UnitValue:   out.UnitValue,
		Observation: out.Observation,
	}
	if err := s.store.UpdateEntry(ctx, updated); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionEditEntry, "edited entry", "entries", entryID)
	return nil
}

// Delete removes a batch of the month's entries. Auditors may delete while
// the sheet is under audit; worksite users only while it is writable. The
// deletion itself is scoped to the gated month, so ids from a month whose
// sheet is closed are never matched.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, worksiteID int64, month time.Time, ids []int64, reason string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.Validation("no entries to delete")
	}

	current, err := s.sheets.Get(ctx, worksiteID, month)
	if err != nil {
		return 0, err
	}
	if !sheet.CanDelete(current.State, actor.IsAuditor()) {
		return 0, apperr.SheetClosed(current.State)
	}

	deleted, err := s.store.DeleteEntries(ctx, worksiteID, month, ids)
	if err != nil {
		return 0, err
	}

	detail := fmt.Sprintf("deleted %d entries", deleted)
	if reason != "" {
		detail += ": " + reason
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionDeleteEntries, detail, "entries", firstID(ids))
	return deleted, nil
}

// ListMonth returns the denormalized month view; gratifications surface
// the reserved discipline label.
func (s *Service) ListMonth(ctx context.Context, worksiteID int64, month time.Time) ([]Entry, error) {
	entries, err := s.store.ListMonth(ctx, worksiteID, month)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Kind == KindGratification {
			e.DisciplineName = GratificationDiscipline
		}
		out[i] = e
	}
	return out, nil
}

func firstID(ids []int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}
