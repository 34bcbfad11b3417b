package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aiws-admin-api/internal/models"
)

const paymentColumns = `id, student_id, amount, payment_date, payment_method, note, created_at`

// PaymentRepository reads payment history. Writes go through StudentRepository
// so the student balance changes in the same transaction.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByStudent returns a student's payments, latest first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.PaymentRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM payment_history WHERE student_id = $1 ORDER BY payment_date DESC, id DESC", paymentColumns)
	var payments []models.PaymentRecord
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByID fetches a payment by id.
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*models.PaymentRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM payment_history WHERE id = $1", paymentColumns)
	var payment models.PaymentRecord
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}
