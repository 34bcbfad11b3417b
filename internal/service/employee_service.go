package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, p models.Predicate) ([]models.Employee, error)
	FindByID(ctx context.Context, id int64) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id int64) error
}

// EmployeeRequest is the create and full-replace update payload.
type EmployeeRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Role        string         `json:"role" validate:"required,max=255"`
	Department  string         `json:"department" validate:"required,oneof='AI Training' 'Digital Marketing' 'E-commerce' 'Sales' 'Operations'"`
	Status      string         `json:"status" validate:"omitempty,oneof=active on-leave"`
	Workload    derived.Number `json:"workload" validate:"min=0,max=100"`
	Courses     derived.Number `json:"courses" validate:"min=0"`
	Performance derived.Number `json:"performance" validate:"min=0,max=100"`
	Salary      derived.Number `json:"salary" validate:"min=0"`
}

// EmployeeService handles staff use-cases.
type EmployeeService struct {
	repo      employeeRepository
	validator *validator.Validate
	logger    *zap.Logger
	hooks     writeHooks
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo employeeRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, validator: validate, logger: logger, hooks: newWriteHooks(cache, metrics, logger)}
}

// List returns employees ordered by id.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx, firstPredicate(
		models.Eq("department", filter.Department),
		models.Eq("status", filter.Status),
	))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return derived.FilterRecords(employees, func(e models.Employee) bool {
		return derived.EqualsOrAll(filter.Department, e.Department) &&
			derived.EqualsOrAll(filter.Status, e.Status) &&
			derived.MatchesSearch(filter.Search, e.Name, e.Role)
	}), nil
}

// Get returns a single employee.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "employee not found", "failed to load employee")
	}
	return employee, nil
}

// Create stores a new employee. Status defaults to active.
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid employee payload")
	}
	employee := &models.Employee{}
	applyEmployeeRequest(employee, req)
	if err := s.repo.Create(ctx, employee); err != nil {
		s.hooks.failed(EntityEmployees, "create", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	s.hooks.done(ctx, EntityEmployees, "create", employee.ID)
	return employee, nil
}

// Update replaces an employee's fields.
func (s *EmployeeService) Update(ctx context.Context, id int64, req EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid employee payload")
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "employee not found", "failed to load employee")
	}
	applyEmployeeRequest(employee, req)
	if err := s.repo.Update(ctx, employee); err != nil {
		s.hooks.failed(EntityEmployees, "update", err)
		return nil, lookupError(err, "employee not found", "failed to update employee")
	}
	s.hooks.done(ctx, EntityEmployees, "update", employee.ID)
	return employee, nil
}

// Delete removes an employee.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.hooks.failed(EntityEmployees, "delete", err)
		return lookupError(err, "employee not found", "failed to delete employee")
	}
	s.hooks.done(ctx, EntityEmployees, "delete", id)
	return nil
}

func applyEmployeeRequest(e *models.Employee, req EmployeeRequest) {
	e.Name = req.Name
	e.Role = req.Role
	e.Department = req.Department
	e.Status = req.Status
	if e.Status == "" {
		e.Status = models.EmployeeStatusActive
	}
	e.Workload = req.Workload.Int64()
	e.Courses = req.Courses.Int64()
	e.Performance = req.Performance.Int64()
	e.Salary = req.Salary.Int64()
}
