package catalog

import (
	"context"
	"fmt"
	"strings"

	"folha/internal/apperr"
	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/domain/compensation"
)

type BusinessService struct {
	store *Store
	log   *audit.Service
}

func NewBusinessService(store *Store, log *audit.Service) *BusinessService {
	return &BusinessService{store: store, log: log}
}

func (s *BusinessService) Store() *Store {
	return s.store
}

func (s *BusinessService) AddWorksite(ctx context.Context, actor auth.Actor, name, accessCode string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("worksite name is required")
	}
	if strings.TrimSpace(accessCode) == "" {
		return 0, apperr.Validation("access code is required")
	}

	hash, err := auth.HashCode(accessCode)
	if err != nil {
		return 0, apperr.Repository(err)
	}

	id, err := s.store.CreateWorksite(ctx, name, hash)
	if err != nil {
		return 0, err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionAddWorksite, fmt.Sprintf("created worksite %q", name), "worksites", id)
	return id, nil
}

func (s *BusinessService) SaveNotice(ctx context.Context, actor auth.Actor, worksiteID int64, notice string) error {
	if err := s.store.SaveNotice(ctx, worksiteID, notice); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionSaveNotice, "updated worksite notice", "worksites", worksiteID)
	return nil
}

func (s *BusinessService) DeactivateWorksite(ctx context.Context, actor auth.Actor, worksiteID int64) error {
	if err := s.store.SetWorksiteStatus(ctx, worksiteID, WorksiteInactive); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionDeactivateWorksite, "deactivated worksite", "worksites", worksiteID)
	return nil
}

func (s *BusinessService) ChangeAccessCode(ctx context.Context, actor auth.Actor, worksiteID int64, code string) error {
	if strings.TrimSpace(code) == "" {
		return apperr.Validation("access code is required")
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return apperr.Repository(err)
	}
	if _, err := s.store.GetWorksite(ctx, worksiteID); err != nil {
		return err
	}
	if err := s.store.UpdateAccessCode(ctx, worksiteID, hash); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionChangeAccessCode, "rotated worksite access code", "access_codes", worksiteID)
	return nil
}

func validRoleType(roleType string) bool {
	return roleType == compensation.RoleTypeProduction || roleType == compensation.RoleTypeBonus
}

func (s *BusinessService) AddRole(ctx context.Context, actor auth.Actor, r Role) (int64, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return 0, apperr.Validation("role name is required")
	}
	if !validRoleType(r.Type) {
		return 0, apperr.Validation("role type must be %s or %s", compensation.RoleTypeProduction, compensation.RoleTypeBonus)
	}
	if r.BaseSalary.IsNegative() {
		return 0, apperr.Validation("base salary must not be negative")
	}

	id, err := s.store.CreateRole(ctx, r)
	if err != nil {
		return 0, err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionAddRole, fmt.Sprintf("created role %q (%s)", r.Name, r.Type), "roles", id)
	return id, nil
}

func (s *BusinessService) EditRole(ctx context.Context, actor auth.Actor, r Role) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return apperr.Validation("role name is required")
	}
	if !validRoleType(r.Type) {
		return apperr.Validation("role type must be %s or %s", compensation.RoleTypeProduction, compensation.RoleTypeBonus)
	}
	if r.BaseSalary.IsNegative() {
		return apperr.Validation("base salary must not be negative")
	}

	if err := s.store.UpdateRole(ctx, r); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionEditRole, fmt.Sprintf("updated role %q", r.Name), "roles", r.ID)
	return nil
}

func (s *BusinessService) DeactivateRole(ctx context.Context, actor auth.Actor, roleID int64) error {
	count, err := s.store.CountActiveEmployeesByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.InUse("role", count)
	}
	if err := s.store.DeactivateRole(ctx, roleID); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionDeactivateRole, "deactivated role", "roles", roleID)
	return nil
}

func (s *BusinessService) AddEmployee(ctx context.Context, actor auth.Actor, name string, roleID, worksiteID int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("employee name is required")
	}
	if roleID == 0 || worksiteID == 0 {
		return 0, apperr.Validation("employee requires a role and a worksite")
	}

	id, err := s.store.CreateEmployee(ctx, name, roleID, worksiteID)
	if err != nil {
		return 0, err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionAddEmployee, fmt.Sprintf("created employee %q", name), "employees", id)
	return id, nil
}

func (s *BusinessService) EditEmployee(ctx context.Context, actor auth.Actor, id int64, name string, roleID, worksiteID int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("employee name is required")
	}
	if roleID == 0 || worksiteID == 0 {
		return apperr.Validation("employee requires a role and a worksite")
	}

	if err := s.store.UpdateEmployee(ctx, id, name, roleID, worksiteID); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionEditEmployee, fmt.Sprintf("updated employee %q", name), "employees", id)
	return nil
}

func (s *BusinessService) DeactivateEmployee(ctx context.Context, actor auth.Actor, id int64) error {
	if err := s.store.DeactivateEmployee(ctx, id); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionDeactivateEmployee, "deactivated employee", "employees", id)
	return nil
}

func (s *BusinessService) AddDiscipline(ctx context.Context, actor auth.Actor, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("discipline name is required")
	}
	id, err := s.store.CreateDiscipline(ctx, name)
	if err != nil {
		return 0, err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionAddDiscipline, fmt.Sprintf("created discipline %q", name), "disciplines", id)
	return id, nil
}

func (s *BusinessService) EditDiscipline(ctx context.Context, actor auth.Actor, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("discipline name is required")
	}
	if err := s.store.UpdateDiscipline(ctx, id, name); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionEditDiscipline, fmt.Sprintf("updated discipline %q", name), "disciplines", id)
	return nil
}

func (s *BusinessService) DeactivateDiscipline(ctx context.Context, actor auth.Actor, id int64) error {
	count, err := s.store.CountActiveServicesByDiscipline(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.InUse("discipline", count)
	}
	if err := s.store.SetDisciplineActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionDeactivateDiscipline, "deactivated discipline", "disciplines", id)
	return nil
}

func (s *BusinessService) ReactivateDiscipline(ctx context.Context, actor auth.Actor, id int64) error {
	if err := s.store.SetDisciplineActive(ctx, id, true); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionReactivateDiscipline, "reactivated discipline", "disciplines", id)
	return nil
}

func (s *BusinessService) AddService(ctx context.Context, actor auth.Actor, svc Service) (int64, error) {
	svc.Description = strings.TrimSpace(svc.Description)
	if svc.Description == "" {
		return 0, apperr.Validation("service description is required")
	}
	if svc.DisciplineID == 0 {
		return 0, apperr.Validation("service requires a discipline")
	}
	if svc.UnitValue.IsNegative() {
		return 0, apperr.Validation("unit value must not be negative")
	}

	id, err := s.store.CreateService(ctx, svc)
	if err != nil {
		return 0, err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionAddService, fmt.Sprintf("created service %q", svc.Description), "services", id)
	return id, nil
}

func (s *BusinessService) EditService(ctx context.Context, actor auth.Actor, svc Service) error {
	svc.Description = strings.TrimSpace(svc.Description)
	if svc.Description == "" {
		return apperr.Validation("service description is required")
	}
	if svc.DisciplineID == 0 {
		return apperr.Validation("service requires a discipline")
	}
	if svc.UnitValue.IsNegative() {
		return apperr.Validation("unit value must not be negative")
	}

	if err := s.store.UpdateService(ctx, svc); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionEditService, fmt.Sprintf("updated service %q", svc.Description), "services", svc.ID)
	return nil
}

func (s *BusinessService) DeactivateService(ctx context.Context, actor auth.Actor, id int64) error {
	if err := s.store.SetServiceActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionDeactivateService, "deactivated service", "services", id)
	return nil
}

func (s *BusinessService) ReactivateService(ctx context.Context, actor auth.Actor, id int64) error {
	if err := s.store.SetServiceActive(ctx, id, true); err != nil {
		return err
	}
	s.log.Record(ctx, actor.LogName(), audit.ActionReactivateService, "reactivated service", "services", id)
	return nil
}
