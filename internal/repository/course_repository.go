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

const courseColumns = `id, name, instructor, category, start_date, end_date, students, progress, revenue, status, created_at, updated_at`

var courseFilterColumns = map[string]string{
	"status":   "status",
	"category": "category",
}

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses ordered by id.
func (r *CourseRepository) List(ctx context.Context, p models.Predicate) ([]models.Course, error) {
	where, args, err := equalityClause(p, courseFilterColumns)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	query := fmt.Sprintf("SELECT %s FROM courses%s ORDER BY id ASC", courseColumns, where)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Create inserts a course and sets its id.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (name, instructor, category, start_date, end_date, students, progress, revenue, status, created_at, updated_at)
        VALUES (:name, :instructor, :category, :start_date, :end_date, :students, :progress, :revenue, :status, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, course)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	course.ID = id
	return nil
}

// Update replaces the mutable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, instructor = :instructor, category = :category, start_date = :start_date, end_date = :end_date,
        students = :students, progress = :progress, revenue = :revenue, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a course. Enrolled students keep their copy of the course name.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return expectAffected(res)
}
