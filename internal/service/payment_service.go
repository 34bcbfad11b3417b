package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/repository"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type paymentRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.PaymentRecord, error)
}

type paymentLedger interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ApplyPayment(ctx context.Context, payment *models.PaymentRecord, mutate repository.PaymentMutation) (*models.Student, error)
	RevertPayment(ctx context.Context, paymentID int64, mutate repository.PaymentMutation) (*models.Student, error)
}

// PaymentRequest records one installment.
type PaymentRequest struct {
	Amount        derived.Number `json:"amount" validate:"gt=0"`
	PaymentDate   models.Date    `json:"payment_date"`
	PaymentMethod string         `json:"payment_method" validate:"max=50"`
	Note          string         `json:"note"`
}

// PaymentResult pairs a payment with the student after the change.
type PaymentResult struct {
	Payment models.PaymentRecord `json:"payment"`
	Student *models.Student      `json:"student"`
}

// PaymentService keeps payment history and student balances in step.
type PaymentService struct {
	payments  paymentRepository
	students  paymentLedger
	validator *validator.Validate
	logger    *zap.Logger
	hooks     writeHooks
	metrics   *MetricsService
}

// NewPaymentService constructs the payment service.
func NewPaymentService(payments paymentRepository, students paymentLedger, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		payments:  payments,
		students:  students,
		validator: validate,
		logger:    logger,
		hooks:     newWriteHooks(cache, metrics, logger),
		metrics:   metrics,
	}
}

// ListByStudent returns a student's payments, newest first.
func (s *PaymentService) ListByStudent(ctx context.Context, studentID int64) ([]models.PaymentRecord, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	payments, err := s.payments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// Record stores a payment and raises the student's paid amount in one transaction.
func (s *PaymentService) Record(ctx context.Context, studentID int64, req PaymentRequest) (*PaymentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid payment payload")
	}
	payment := &models.PaymentRecord{
		StudentID:     studentID,
		Amount:        req.Amount.Int64(),
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = models.Today()
	}

	student, err := s.students.ApplyPayment(ctx, payment, func(st *models.Student, p models.PaymentRecord) error {
		st.PaidAmount += p.Amount
		if p.PaymentMethod != "" {
			st.PaymentMethod = p.PaymentMethod
		}
		st.Recompute()
		return nil
	})
	if err != nil {
		s.hooks.failed(EntityPayments, "create", err)
		return nil, lookupError(err, "student not found", "failed to record payment")
	}
	s.metrics.RecordPayment(payment.Amount)
	s.hooks.done(ctx, EntityPayments, "create", payment.ID)
	return &PaymentResult{Payment: *payment, Student: student}, nil
}

// Delete removes a payment and subtracts its amount from the student.
func (s *PaymentService) Delete(ctx context.Context, paymentID int64) (*models.Student, error) {
	student, err := s.students.RevertPayment(ctx, paymentID, func(st *models.Student, p models.PaymentRecord) error {
		st.PaidAmount -= p.Amount
		if st.PaidAmount < 0 {
			st.PaidAmount = 0
		}
		st.Recompute()
		return nil
	})
	if err != nil {
		s.hooks.failed(EntityPayments, "delete", err)
		return nil, lookupError(err, "payment not found", "failed to delete payment")
	}
	s.hooks.done(ctx, EntityPayments, "delete", paymentID)
	return student, nil
}
