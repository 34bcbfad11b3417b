package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aiws-admin-api/internal/models"
)

const employeeColumns = `id, name, role, department, status, workload, courses, performance, salary, created_at, updated_at`

var employeeFilterColumns = map[string]string{
	"department": "department",
	"status":     "status",
}

// EmployeeRepository manages persistence for staff records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees ordered by id, optionally narrowed by one predicate.
func (r *EmployeeRepository) List(ctx context.Context, p models.Predicate) ([]models.Employee, error) {
	where, args, err := equalityClause(p, employeeFilterColumns)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	query := fmt.Sprintf("SELECT %s FROM employees%s ORDER BY id ASC", employeeColumns, where)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// FindByID fetches an employee by id.
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &employee, nil
}

// Create inserts a new employee and sets its id.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (name, role, department, status, workload, courses, performance, salary, created_at, updated_at)
        VALUES (:name, :role, :department, :status, :workload, :courses, :performance, :salary, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, employee)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	employee.ID = id
	return nil
}

// Update replaces the mutable fields of an employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET name = :name, role = :role, department = :department, status = :status, workload = :workload,
        courses = :courses, performance = :performance, salary = :salary, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, employee)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an employee permanently.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return expectAffected(res)
}
