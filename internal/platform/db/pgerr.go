package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"folha/internal/apperr"
)

// TranslateError maps store failures onto behavioral kinds: unique
// violations on human-readable names become DuplicateName, missing rows
// become NotFound, everything else stays a repository error.
func TranslateError(err error, field string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(field)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.DuplicateName(field)
	}
	return apperr.Repository(err)
}
