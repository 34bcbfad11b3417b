package models

import "time"

// PaymentRecord is one installment paid by a student.
type PaymentRecord struct {
	ID            int64     `db:"id" json:"id"`
	StudentID     int64     `db:"student_id" json:"student_id"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentDate   Date      `db:"payment_date" json:"payment_date"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Note          string    `db:"note" json:"note"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
