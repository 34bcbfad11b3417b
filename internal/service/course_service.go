package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, p models.Predicate) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseRequest is the create and full-replace update payload.
type CourseRequest struct {
	Name       string         `json:"name" validate:"required,max=255"`
	Instructor string         `json:"instructor" validate:"max=255"`
	Category   string         `json:"category" validate:"max=100"`
	StartDate  models.Date    `json:"start_date"`
	EndDate    models.Date    `json:"end_date"`
	Students   derived.Number `json:"students" validate:"min=0"`
	Progress   derived.Number `json:"progress" validate:"min=0,max=100"`
	Revenue    derived.Number `json:"revenue" validate:"min=0"`
	Status     string         `json:"status" validate:"omitempty,oneof=upcoming active completed"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
	hooks     writeHooks
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger, hooks: newWriteHooks(cache, metrics, logger)}
}

// List returns courses ordered by id.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses, err := s.repo.List(ctx, firstPredicate(
		models.Eq("status", filter.Status),
		models.Eq("category", filter.Category),
	))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return derived.FilterRecords(courses, func(c models.Course) bool {
		return derived.EqualsOrAll(filter.Status, c.Status) &&
			derived.EqualsOrAll(filter.Category, c.Category) &&
			derived.MatchesSearch(filter.Search, c.Name, c.Instructor)
	}), nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	return course, nil
}

// Create stores a new course. Status defaults to upcoming.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	course := &models.Course{}
	applyCourseRequest(course, req)
	if err := s.repo.Create(ctx, course); err != nil {
		s.hooks.failed(EntityCourses, "create", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.hooks.done(ctx, EntityCourses, "create", course.ID)
	return course, nil
}

// Update replaces a course's fields.
func (s *CourseService) Update(ctx context.Context, id int64, req CourseRequest) (*models.Course, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	applyCourseRequest(course, req)
	if err := s.repo.Update(ctx, course); err != nil {
		s.hooks.failed(EntityCourses, "update", err)
		return nil, lookupError(err, "course not found", "failed to update course")
	}
	s.hooks.done(ctx, EntityCourses, "update", course.ID)
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.hooks.failed(EntityCourses, "delete", err)
		return lookupError(err, "course not found", "failed to delete course")
	}
	s.hooks.done(ctx, EntityCourses, "delete", id)
	return nil
}

func (s *CourseService) validateRequest(req CourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid course payload")
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate.Time) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	return nil
}

func applyCourseRequest(c *models.Course, req CourseRequest) {
	c.Name = req.Name
	c.Instructor = req.Instructor
	c.Category = req.Category
	c.StartDate = req.StartDate
	c.EndDate = req.EndDate
	c.Students = req.Students.Int64()
	c.Progress = req.Progress.Int64()
	c.Revenue = req.Revenue.Int64()
	c.Status = req.Status
	if c.Status == "" {
		c.Status = models.CourseStatusUpcoming
	}
}
