package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"folha/internal/apperr"
)

// CodeStore resolves a worksite's stored access-code hash by name.
type CodeStore interface {
	AccessCodeHash(ctx context.Context, worksiteName string) (int64, string, error)
}

type Service struct {
	DB    *pgxpool.Pool
	Codes CodeStore
}

func NewService(pool *pgxpool.Pool, codes CodeStore) *Service {
	return &Service{DB: pool, Codes: codes}
}

// LoginAuditor checks the shared admin password against the seeded hash.
func (s *Service) LoginAuditor(ctx context.Context, password string) (Actor, error) {
	var hash string
	err := s.DB.QueryRow(ctx, "SELECT password_hash FROM admin_credentials WHERE id = 1").Scan(&hash)
	if err != nil {
		return Actor{}, apperr.Auth("admin credential is not configured")
	}
	if CheckCode(hash, password) != nil {
		return Actor{}, apperr.Auth("invalid password")
	}
	return Actor{Role: RoleAuditor}, nil
}

// LoginWorksite checks a worksite name and access code pair.
func (s *Service) LoginWorksite(ctx context.Context, worksiteName, code string) (Actor, error) {
	worksiteID, hash, err := s.Codes.AccessCodeHash(ctx, worksiteName)
	if err != nil {
		return Actor{}, apperr.Auth("unknown worksite or invalid access code")
	}
	if CheckCode(hash, code) != nil {
		return Actor{}, apperr.Auth("unknown worksite or invalid access code")
	}
	return Actor{Role: RoleWorksite, WorksiteID: worksiteID, WorksiteName: worksiteName}, nil
}
