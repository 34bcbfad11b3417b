package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aiws-admin-api/internal/models"
)

var employeeRowColumns = []string{"id", "name", "role", "department", "status", "workload", "courses", "performance", "salary", "created_at", "updated_at"}

func TestEmployeeListByDepartment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(employeeRowColumns).
		AddRow(1, "An", "Trainer", "AI Training", "active", 80, 3, 92, 25000000, now, now).
		AddRow(4, "Dung", "Lead", "AI Training", "on-leave", 20, 1, 85, 30000000, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE department = $1 ORDER BY id ASC")).
		WithArgs("AI Training").
		WillReturnRows(rows)

	employees, err := repo.List(context.Background(), models.Eq("department", "AI Training"))
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, int64(1), employees[0].ID)
	assert.Equal(t, int64(25000000), employees[0].Salary)
	assert.Equal(t, "on-leave", employees[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeListUnfiltered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	employees, err := repo.List(context.Background(), models.Predicate{})
	require.NoError(t, err)
	assert.Empty(t, employees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeListRejectsUnknownField(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	_, err := repo.List(context.Background(), models.Eq("salary; DROP TABLE employees", 1))
	assert.Error(t, err)
}

func TestEmployeeCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("INSERT INTO employees .* RETURNING id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	employee := &models.Employee{Name: "Em", Department: "Sales", Status: "active"}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.Equal(t, int64(7), employee.ID)
	assert.False(t, employee.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Employee{ID: 99, Name: "Ghost"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
