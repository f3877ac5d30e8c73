package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"folha/internal/platform/config"
)

// Seed stores the auditor credential hash. Re-running with the same password
// is a no-op; a changed ADMIN_PASSWORD rotates the stored hash.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	password := strings.TrimSpace(cfg.AdminPassword)
	if password == "" {
		return nil
	}

	var current string
	err := pool.QueryRow(ctx, "SELECT password_hash FROM admin_credentials WHERE id = 1").Scan(&current)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(current), []byte(password)) == nil {
			return nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO admin_credentials (id, password_hash)
    VALUES (1, $1)
    ON CONFLICT (id) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = now()
  `, string(hash))
	return err
}
