package models

import "time"

// CourseStatus values.
const (
	CourseStatusUpcoming  = "upcoming"
	CourseStatusActive    = "active"
	CourseStatusCompleted = "completed"
)

// Course is a training course offering.
type Course struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Instructor string    `db:"instructor" json:"instructor"`
	Category   string    `db:"category" json:"category"`
	StartDate  Date      `db:"start_date" json:"start_date"`
	EndDate    Date      `db:"end_date" json:"end_date"`
	Students   int64     `db:"students" json:"students"`
	Progress   int64     `db:"progress" json:"progress"`
	Revenue    int64     `db:"revenue" json:"revenue"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures listing criteria.
type CourseFilter struct {
	Status   string
	Category string
	Search   string
}
