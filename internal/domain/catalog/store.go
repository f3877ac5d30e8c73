package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.Cache.Purge()
	return nil
}

func (s *Store) ListWorksites(ctx context.Context) ([]Worksite, error) {
	const key = "catalog:worksites"
	if cached, ok := s.Cache.Get(key); ok {
		return cached.([]Worksite), nil
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, name, status, COALESCE(notice, ''), created_at
    FROM worksites
    ORDER BY name
  `)
	if err != nil {
		return nil, db.TranslateError(err, "worksite")
	}
	defer rows.Close()

	var out []Worksite
	for rows.Next() {
		var w Worksite
		if err := rows.Scan(&w.ID, &w.Name, &w.Status, &w.Notice, &w.CreatedAt); err != nil {
			return nil, db.TranslateError(err, "worksite")
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, db.TranslateError(err, "worksite")
	}
	s.Cache.Set(key, out)
	return out, nil
}

func (s *Store) GetWorksite(ctx context.Context, id int64) (*Worksite, error) {
	var w Worksite
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, status, COALESCE(notice, ''), created_at
    FROM worksites
    WHERE id = $1
  `, id).Scan(&w.ID, &w.Name, &w.Status, &w.Notice, &w.CreatedAt)
	if err != nil {
		return nil, db.TranslateError(err, "worksite")
	}
	return &w, nil
}

func (s *Store) CreateWorksite(ctx context.Context, name, accessCodeHash string) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
      INSERT INTO worksites (name, status)
      VALUES ($1, $2)
      RETURNING id
    `, name, WorksiteActive).Scan(&id); err != nil {
			return db.TranslateError(err, "worksite name")
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO access_codes (worksite_id, code_hash)
      VALUES ($1, $2)
    `, id, accessCodeHash); err != nil {
			return db.TranslateError(err, "access code")
		}
		return nil
	})
	return id, err
}

func (s *Store) SaveNotice(ctx context.Context, worksiteID int64, notice string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE worksites SET notice = $1 WHERE id = $2", notice, worksiteID)
		if err != nil {
			return db.TranslateError(err, "worksite")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "worksite")
		}
		return nil
	})
}

func (s *Store) SetWorksiteStatus(ctx context.Context, worksiteID int64, status string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE worksites SET status = $1 WHERE id = $2", status, worksiteID)
		if err != nil {
			return db.TranslateError(err, "worksite")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "worksite")
		}
		return nil
	})
}

func (s *Store) UpdateAccessCode(ctx context.Context, worksiteID int64, codeHash string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
      INSERT INTO access_codes (worksite_id, code_hash)
      VALUES ($1, $2)
      ON CONFLICT (worksite_id) DO UPDATE SET code_hash = EXCLUDED.code_hash, updated_at = now()
    `, worksiteID, codeHash)
		return db.TranslateError(err, "access code")
	})
}

func (s *Store) AccessCodeHash(ctx context.Context, worksiteName string) (int64, string, error) {
	var worksiteID int64
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT w.id, ac.code_hash
    FROM worksites w
    JOIN access_codes ac ON ac.worksite_id = w.id
    WHERE w.name = $1 AND w.status = $2
  `, worksiteName, WorksiteActive).Scan(&worksiteID, &hash)
	if err != nil {
		return 0, "", db.TranslateError(err, "worksite")
	}
	return worksiteID, hash, nil
}

func (s *Store) ListRoles(ctx context.Context, activeOnly bool) ([]Role, error) {
	key := fmt.Sprintf("catalog:roles:%t", activeOnly)
	if cached, ok := s.Cache.Get(key); ok {
		return cached.([]Role), nil
	}

	query := "SELECT id, name, role_type, base_salary, active FROM roles"
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, db.TranslateError(err, "role")
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.BaseSalary, &r.Active); err != nil {
			return nil, db.TranslateError(err, "role")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, db.TranslateError(err, "role")
	}
	s.Cache.Set(key, out)
	return out, nil
}

func (s *Store) GetRole(ctx context.Context, id int64) (*Role, error) {
	var r Role
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, role_type, base_salary, active
    FROM roles
    WHERE id = $1
  `, id).Scan(&r.ID, &r.Name, &r.Type, &r.BaseSalary, &r.Active)
	if err != nil {
		return nil, db.TranslateError(err, "role")
	}
	return &r, nil
}

func (s *Store) CreateRole(ctx context.Context, r Role) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		return db.TranslateError(tx.QueryRow(ctx, `
      INSERT INTO roles (name, role_type, base_salary, active)
      VALUES ($1, $2, $3, true)
      RETURNING id
    `, r.Name, r.Type, r.BaseSalary).Scan(&id), "role name")
	})
	return id, err
}

func (s *Store) UpdateRole(ctx context.Context, r Role) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE roles SET name = $1, role_type = $2, base_salary = $3 WHERE id = $4
    `, r.Name, r.Type, r.BaseSalary, r.ID)
		if err != nil {
			return db.TranslateError(err, "role name")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "role")
		}
		return nil
	})
}

func (s *Store) CountActiveEmployeesByRole(ctx context.Context, roleID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE role_id = $1 AND active", roleID).Scan(&count)
	if err != nil {
		return 0, db.TranslateError(err, "employee")
	}
	return count, nil
}

func (s *Store) DeactivateRole(ctx context.Context, roleID int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE roles SET active = false WHERE id = $1 AND active", roleID)
		if err != nil {
			return db.TranslateError(err, "role")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "role")
		}
		return nil
	})
}

func (s *Store) ListEmployees(ctx context.Context, worksiteID int64, activeOnly bool) ([]Employee, error) {
	key := fmt.Sprintf("catalog:employees:%d:%t", worksiteID, activeOnly)
	if cached, ok := s.Cache.Get(key); ok {
		return cached.([]Employee), nil
	}

	query := `
    SELECT e.id, e.name, e.role_id, r.name, r.role_type, r.base_salary,
           e.worksite_id, w.name, e.active
    FROM employees e
    JOIN roles r ON r.id = e.role_id
    JOIN worksites w ON w.id = e.worksite_id
    WHERE 1=1`
	args := []any{}
	if worksiteID != 0 {
		query += fmt.Sprintf(" AND e.worksite_id = $%d", len(args)+1)
		args = append(args, worksiteID)
	}
	if activeOnly {
		query += " AND e.active"
	}
	query += " ORDER BY e.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, db.TranslateError(err, "employee")
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.RoleID, &e.RoleName, &e.RoleType, &e.BaseSalary, &e.WorksiteID, &e.WorksiteName, &e.Active); err != nil {
			return nil, db.TranslateError(err, "employee")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.TranslateError(err, "employee")
	}
	s.Cache.Set(key, out)
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, e.name, e.role_id, r.name, r.role_type, r.base_salary,
           e.worksite_id, w.name, e.active
    FROM employees e
    JOIN roles r ON r.id = e.role_id
    JOIN worksites w ON w.id = e.worksite_id
    WHERE e.id = $1
  `, id).Scan(&e.ID, &e.Name, &e.RoleID, &e.RoleName, &e.RoleType, &e.BaseSalary, &e.WorksiteID, &e.WorksiteName, &e.Active)
	if err != nil {
		return nil, db.TranslateError(err, "employee")
	}
	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, name string, roleID, worksiteID int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		return db.TranslateError(tx.QueryRow(ctx, `
      INSERT INTO employees (name, role_id, worksite_id, active)
      VALUES ($1, $2, $3, true)
      RETURNING id
    `, name, roleID, worksiteID).Scan(&id), "employee name")
	})
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, name string, roleID, worksiteID int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE employees SET name = $1, role_id = $2, worksite_id = $3 WHERE id = $4
    `, name, roleID, worksiteID, id)
		if err != nil {
			return db.TranslateError(err, "employee name")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "employee")
		}
		return nil
	})
}

func (s *Store) DeactivateEmployee(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE employees SET active = false WHERE id = $1 AND active", id)
		if err != nil {
			return db.TranslateError(err, "employee")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "employee")
		}
		return nil
	})
}

func (s *Store) ListDisciplines(ctx context.Context, activeOnly bool) ([]Discipline, error) {
	query := "SELECT id, name, active FROM disciplines"
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, db.TranslateError(err, "discipline")
	}
	defer rows.Close()

	var out []Discipline
	for rows.Next() {
		var d Discipline
		if err := rows.Scan(&d.ID, &d.Name, &d.Active); err != nil {
			return nil, db.TranslateError(err, "discipline")
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDiscipline(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		return db.TranslateError(tx.QueryRow(ctx, `
      INSERT INTO disciplines (name, active) VALUES ($1, true) RETURNING id
    `, name).Scan(&id), "discipline name")
	})
	return id, err
}

func (s *Store) UpdateDiscipline(ctx context.Context, id int64, name string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE disciplines SET name = $1 WHERE id = $2", name, id)
		if err != nil {
			return db.TranslateError(err, "discipline name")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "discipline")
		}
		return nil
	})
}

func (s *Store) SetDisciplineActive(ctx context.Context, id int64, active bool) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE disciplines SET active = $1 WHERE id = $2", active, id)
		if err != nil {
			return db.TranslateError(err, "discipline")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "discipline")
		}
		return nil
	})
}

func (s *Store) CountActiveServicesByDiscipline(ctx context.Context, disciplineID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM services WHERE discipline_id = $1 AND active", disciplineID).Scan(&count)
	if err != nil {
		return 0, db.TranslateError(err, "service")
	}
	return count, nil
}

func (s *Store) ListServices(ctx context.Context, disciplineID int64, activeOnly bool) ([]Service, error) {
	key := fmt.Sprintf("catalog:services:%d:%t", disciplineID, activeOnly)
	if cached, ok := s.Cache.Get(key); ok {
		return cached.([]Service), nil
	}

	query := `
    SELECT s.id, s.discipline_id, d.name, s.description, s.unit, s.unit_value, s.active
    FROM services s
    JOIN disciplines d ON d.id = s.discipline_id
    WHERE 1=1`
	args := []any{}
	if disciplineID != 0 {
		query += fmt.Sprintf(" AND s.discipline_id = $%d", len(args)+1)
		args = append(args, disciplineID)
	}
	if activeOnly {
		query += " AND s.active"
	}
	query += " ORDER BY d.name, s.description"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, db.TranslateError(err, "service")
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.DisciplineID, &svc.DisciplineName, &svc.Description, &svc.Unit, &svc.UnitValue, &svc.Active); err != nil {
			return nil, db.TranslateError(err, "service")
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, db.TranslateError(err, "service")
	}
	s.Cache.Set(key, out)
	return out, nil
}

func (s *Store) GetService(ctx context.Context, id int64) (*Service, error) {
	var svc Service
	err := s.DB.QueryRow(ctx, `
    SELECT s.id, s.discipline_id, d.name, s.description, s.unit, s.unit_value, s.active
    FROM services s
    JOIN disciplines d ON d.id = s.discipline_id
    WHERE s.id = $1
  `, id).Scan(&svc.ID, &svc.DisciplineID, &svc.DisciplineName, &svc.Description, &svc.Unit, &svc.UnitValue, &svc.Active)
	if err != nil {
		return nil, db.TranslateError(err, "service")
	}
	return &svc, nil
}

func (s *Store) CreateService(ctx context.Context, svc Service) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		return db.TranslateError(tx.QueryRow(ctx, `
      INSERT INTO services (discipline_id, description, unit, unit_value, active)
      VALUES ($1, $2, $3, $4, true)
      RETURNING id
    `, svc.DisciplineID, svc.Description, svc.Unit, svc.UnitValue).Scan(&id), "service description")
	})
	return id, err
}

func (s *Store) UpdateService(ctx context.Context, svc Service) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      UPDATE services SET discipline_id = $1, description = $2, unit = $3, unit_value = $4 WHERE id = $5
    `, svc.DisciplineID, svc.Description, svc.Unit, svc.UnitValue, svc.ID)
		if err != nil {
			return db.TranslateError(err, "service description")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "service")
		}
		return nil
	})
}

func (s *Store) SetServiceActive(ctx context.Context, id int64, active bool) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "UPDATE services SET active = $1 WHERE id = $2", active, id)
		if err != nil {
			return db.TranslateError(err, "service")
		}
		if tag.RowsAffected() == 0 {
			return db.TranslateError(pgx.ErrNoRows, "service")
		}
		return nil
	})
}
