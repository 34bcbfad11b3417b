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

const studentColumns = `id, full_name, phone, email, date_of_birth, gender, address, city, occupation, company, course_id, course_name,
        enrollment_date, start_date, tuition_fee, discount_amount, final_fee, paid_amount, remaining_amount, payment_status,
        discount_reason, payment_method, source, referral_by, campaign, student_status, assigned_instructor, notes, created_at, updated_at`

var studentFilterColumns = map[string]string{
	"course_id":      "course_id",
	"payment_status": "payment_status",
	"student_status": "student_status",
}

// PaymentMutation adjusts a locked student for a payment inside a transaction.
// It must leave the student's derived fields consistent with its amounts.
type PaymentMutation func(student *models.Student, payment models.PaymentRecord) error

// StudentRepository manages persistence for student records and their payments.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students newest first, or alphabetically when narrowed to a course.
func (r *StudentRepository) List(ctx context.Context, p models.Predicate) ([]models.Student, error) {
	where, args, err := equalityClause(p, studentFilterColumns)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	order := "created_at DESC, id DESC"
	if p.Field == "course_id" {
		order = "full_name ASC"
	}
	query := fmt.Sprintf("SELECT %s FROM students%s ORDER BY %s", studentColumns, where, order)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a student with its derived fields in a single statement.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (full_name, phone, email, date_of_birth, gender, address, city, occupation, company, course_id, course_name,
        enrollment_date, start_date, tuition_fee, discount_amount, final_fee, paid_amount, remaining_amount, payment_status,
        discount_reason, payment_method, source, referral_by, campaign, student_status, assigned_instructor, notes, created_at, updated_at)
        VALUES (:full_name, :phone, :email, :date_of_birth, :gender, :address, :city, :occupation, :company, :course_id, :course_name,
        :enrollment_date, :start_date, :tuition_fee, :discount_amount, :final_fee, :paid_amount, :remaining_amount, :payment_status,
        :discount_reason, :payment_method, :source, :referral_by, :campaign, :student_status, :assigned_instructor, :notes, :created_at, :updated_at)
        RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	student.ID = id
	return nil
}

// Update replaces a student row, derived fields included.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	return updateStudent(ctx, r.db, student)
}

// Delete removes a student and, by cascade, their payment history.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return expectAffected(res)
}

// ApplyPayment inserts payment and lets mutate adjust the locked student in one transaction.
func (r *StudentRepository) ApplyPayment(ctx context.Context, payment *models.PaymentRecord, mutate PaymentMutation) (student *models.Student, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin apply payment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	student, err = lockStudent(ctx, tx, payment.StudentID)
	if err != nil {
		return nil, err
	}

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const insert = `INSERT INTO payment_history (student_id, amount, payment_date, payment_method, note, created_at)
        VALUES (:student_id, :amount, :payment_date, :payment_method, :note, :created_at) RETURNING id`
	id, err := insertReturningID(ctx, tx, insert, payment)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	payment.ID = id

	if err = mutate(student, *payment); err != nil {
		return nil, err
	}
	if err = updateStudent(ctx, tx, student); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit apply payment: %w", err)
	}
	return student, nil
}

// RevertPayment deletes a payment and lets mutate adjust the locked student in one transaction.
func (r *StudentRepository) RevertPayment(ctx context.Context, paymentID int64, mutate PaymentMutation) (student *models.Student, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin revert payment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := fmt.Sprintf("SELECT %s FROM payment_history WHERE id = $1 FOR UPDATE", paymentColumns)
	var payment models.PaymentRecord
	if err = tx.GetContext(ctx, &payment, query, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}

	student, err = lockStudent(ctx, tx, payment.StudentID)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payment_history WHERE id = $1`, paymentID); err != nil {
		return nil, fmt.Errorf("delete payment: %w", err)
	}
	if err = mutate(student, payment); err != nil {
		return nil, err
	}
	if err = updateStudent(ctx, tx, student); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit revert payment: %w", err)
	}
	return student, nil
}

func lockStudent(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1 FOR UPDATE", studentColumns)
	var student models.Student
	if err := tx.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock student: %w", err)
	}
	return &student, nil
}

func updateStudent(ctx context.Context, ext sqlx.ExtContext, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, phone = :phone, email = :email, date_of_birth = :date_of_birth, gender = :gender,
        address = :address, city = :city, occupation = :occupation, company = :company, course_id = :course_id, course_name = :course_name,
        enrollment_date = :enrollment_date, start_date = :start_date, tuition_fee = :tuition_fee, discount_amount = :discount_amount,
        final_fee = :final_fee, paid_amount = :paid_amount, remaining_amount = :remaining_amount, payment_status = :payment_status,
        discount_reason = :discount_reason, payment_method = :payment_method, source = :source, referral_by = :referral_by,
        campaign = :campaign, student_status = :student_status, assigned_instructor = :assigned_instructor, notes = :notes,
        updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, ext, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return expectAffected(res)
}
