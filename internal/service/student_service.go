package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, p models.Predicate) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type courseLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// StudentRequest is the create and full-replace update payload.
// Derived money fields are never accepted from the client.
type StudentRequest struct {
	FullName           string         `json:"full_name" validate:"required,max=255"`
	Phone              string         `json:"phone" validate:"max=50"`
	Email              string         `json:"email" validate:"omitempty,email"`
	DateOfBirth        models.Date    `json:"date_of_birth"`
	Gender             string         `json:"gender" validate:"max=20"`
	Address            string         `json:"address"`
	City               string         `json:"city" validate:"max=100"`
	Occupation         string         `json:"occupation" validate:"max=255"`
	Company            string         `json:"company" validate:"max=255"`
	CourseID           derived.Number `json:"course_id" validate:"min=0"`
	EnrollmentDate     models.Date    `json:"enrollment_date"`
	StartDate          models.Date    `json:"start_date"`
	TuitionFee         derived.Number `json:"tuition_fee" validate:"min=0"`
	DiscountAmount     derived.Number `json:"discount_amount" validate:"min=0"`
	PaidAmount         derived.Number `json:"paid_amount" validate:"min=0"`
	DiscountReason     string         `json:"discount_reason"`
	PaymentMethod      string         `json:"payment_method" validate:"max=50"`
	Source             string         `json:"source" validate:"max=100"`
	ReferralBy         string         `json:"referral_by" validate:"max=255"`
	Campaign           string         `json:"campaign" validate:"max=255"`
	StudentStatus      string         `json:"student_status" validate:"omitempty,oneof=active completed dropped paused transferred"`
	AssignedInstructor string         `json:"assigned_instructor" validate:"max=255"`
	Notes              string         `json:"notes"`
}

// StudentService handles enrolment use-cases.
type StudentService struct {
	repo      studentRepository
	courses   courseLookup
	validator *validator.Validate
	logger    *zap.Logger
	hooks     writeHooks
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, courses courseLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, courses: courses, validator: validate, logger: logger, hooks: newWriteHooks(cache, metrics, logger)}
}

// List returns students, newest enrolment first.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	var byCourse models.Predicate
	if filter.CourseID != nil {
		byCourse = models.Eq("course_id", *filter.CourseID)
	}
	students, err := s.repo.List(ctx, firstPredicate(
		byCourse,
		models.Eq("payment_status", filter.PaymentStatus),
		models.Eq("student_status", filter.StudentStatus),
	))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return derived.FilterRecords(students, func(st models.Student) bool {
		if filter.CourseID != nil && (st.CourseID == nil || *st.CourseID != *filter.CourseID) {
			return false
		}
		return derived.EqualsOrAll(filter.PaymentStatus, string(st.PaymentStatus)) &&
			derived.EqualsOrAll(filter.StudentStatus, st.StudentStatus) &&
			derived.MatchesSearch(filter.Search, st.FullName, st.Phone, st.Email)
	}), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create enrols a student. Derived fee fields are computed before the row is written.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := &models.Student{}
	if err := s.apply(ctx, student, req); err != nil {
		return nil, err
	}
	if student.EnrollmentDate.IsZero() {
		student.EnrollmentDate = models.Today()
	}
	if err := s.repo.Create(ctx, student); err != nil {
		s.hooks.failed(EntityStudents, "create", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.hooks.done(ctx, EntityStudents, "create", student.ID)
	return student, nil
}

// Update replaces a student's fields and recomputes the fee ledger.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	enrolled := student.EnrollmentDate
	if err := s.apply(ctx, student, req); err != nil {
		return nil, err
	}
	if student.EnrollmentDate.IsZero() {
		student.EnrollmentDate = enrolled
	}
	if err := s.repo.Update(ctx, student); err != nil {
		s.hooks.failed(EntityStudents, "update", err)
		return nil, lookupError(err, "student not found", "failed to update student")
	}
	s.hooks.done(ctx, EntityStudents, "update", student.ID)
	return student, nil
}

// Delete removes a student and, by cascade, their payment history.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.hooks.failed(EntityStudents, "delete", err)
		return lookupError(err, "student not found", "failed to delete student")
	}
	s.hooks.done(ctx, EntityStudents, "delete", id)
	return nil
}

// Stats summarises every stored student.
func (s *StudentService) Stats(ctx context.Context) (derived.StudentStats, error) {
	students, err := s.repo.List(ctx, models.Predicate{})
	if err != nil {
		return derived.StudentStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return derived.StudentStatistics(studentSummaries(students)), nil
}

func (s *StudentService) apply(ctx context.Context, st *models.Student, req StudentRequest) error {
	st.FullName = req.FullName
	st.Phone = req.Phone
	st.Email = req.Email
	st.DateOfBirth = req.DateOfBirth
	st.Gender = req.Gender
	st.Address = req.Address
	st.City = req.City
	st.Occupation = req.Occupation
	st.Company = req.Company
	st.EnrollmentDate = req.EnrollmentDate
	st.StartDate = req.StartDate
	st.TuitionFee = req.TuitionFee.Int64()
	st.DiscountAmount = req.DiscountAmount.Int64()
	st.PaidAmount = req.PaidAmount.Int64()
	st.DiscountReason = req.DiscountReason
	st.PaymentMethod = req.PaymentMethod
	st.Source = req.Source
	st.ReferralBy = req.ReferralBy
	st.Campaign = req.Campaign
	st.StudentStatus = req.StudentStatus
	if st.StudentStatus == "" {
		st.StudentStatus = models.StudentStatusActive
	}
	st.AssignedInstructor = req.AssignedInstructor
	st.Notes = req.Notes

	st.CourseID = nil
	st.CourseName = ""
	if id := req.CourseID.Int64(); id > 0 {
		course, err := s.courses.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "course not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		st.CourseID = &course.ID
		st.CourseName = course.Name
		if st.AssignedInstructor == "" {
			st.AssignedInstructor = course.Instructor
		}
	}

	st.Recompute()
	return nil
}

func studentSummaries(students []models.Student) []derived.StudentSummary {
	out := make([]derived.StudentSummary, 0, len(students))
	for _, st := range students {
		out = append(out, st.Summary())
	}
	return out
}
