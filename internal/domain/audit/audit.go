package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        string    `json:"action"`
	Detail        string    `json:"detail"`
	AffectedTable string    `json:"affectedTable,omitempty"`
	AffectedRowID *int64    `json:"affectedRowId,omitempty"`
}

type Filter struct {
	Actor  string
	Action string
	Since  time.Time
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record appends one log row. Writes are best-effort and run outside the
// caller's transaction: a failure here must never fail the mutation it
// describes, so it is swallowed with a warning.
func (s *Service) Record(ctx context.Context, actor, action, detail, affectedTable string, affectedRowID int64) {
	var rowID any
	if affectedRowID != 0 {
		rowID = affectedRowID
	}
	var table any
	if affectedTable != "" {
		table = affectedTable
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_log (actor, action, detail, affected_table, affected_row_id)
    VALUES ($1,$2,$3,$4,$5)
  `, actor, action, detail, table, rowID)
	if err != nil {
		slog.Warn("audit log write failed", "action", action, "actor", actor, "err", err)
	}
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error) {
	query := `
    SELECT id, created_at, actor, action, detail,
           COALESCE(affected_table, ''), affected_row_id
    FROM audit_log
    WHERE 1=1`
	args := []any{}
	if filter.Actor != "" {
		query += fmt.Sprintf(" AND actor = $%d", len(args)+1)
		args = append(args, filter.Actor)
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filter.Action)
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", len(args)+1)
		args = append(args, filter.Since)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Actor, &entry.Action, &entry.Detail, &entry.AffectedTable, &entry.AffectedRowID); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
