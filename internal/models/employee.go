package models

import "time"

// EmployeeStatus values.
const (
	EmployeeStatusActive  = "active"
	EmployeeStatusOnLeave = "on-leave"
)

// Departments lists the fixed department set.
var Departments = []string{"AI Training", "Digital Marketing", "E-commerce", "Sales", "Operations"}

// Employee is a staff member.
type Employee struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Role        string    `db:"role" json:"role"`
	Department  string    `db:"department" json:"department"`
	Status      string    `db:"status" json:"status"`
	Workload    int64     `db:"workload" json:"workload"`
	Courses     int64     `db:"courses" json:"courses"`
	Performance int64     `db:"performance" json:"performance"`
	Salary      int64     `db:"salary" json:"salary"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter captures listing criteria.
type EmployeeFilter struct {
	Department string
	Status     string
	Search     string
}
