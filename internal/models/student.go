package models

import (
	"time"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
)

// StudentStatus values.
const (
	StudentStatusActive      = "active"
	StudentStatusCompleted   = "completed"
	StudentStatusDropped     = "dropped"
	StudentStatusPaused      = "paused"
	StudentStatusTransferred = "transferred"
)

// Student is an enrolled learner together with their fee ledger.
type Student struct {
	ID                 int64                 `db:"id" json:"id"`
	FullName           string                `db:"full_name" json:"full_name"`
	Phone              string                `db:"phone" json:"phone"`
	Email              string                `db:"email" json:"email"`
	DateOfBirth        Date                  `db:"date_of_birth" json:"date_of_birth"`
	Gender             string                `db:"gender" json:"gender"`
	Address            string                `db:"address" json:"address"`
	City               string                `db:"city" json:"city"`
	Occupation         string                `db:"occupation" json:"occupation"`
	Company            string                `db:"company" json:"company"`
	CourseID           *int64                `db:"course_id" json:"course_id"`
	CourseName         string                `db:"course_name" json:"course_name"`
	EnrollmentDate     Date                  `db:"enrollment_date" json:"enrollment_date"`
	StartDate          Date                  `db:"start_date" json:"start_date"`
	TuitionFee         int64                 `db:"tuition_fee" json:"tuition_fee"`
	DiscountAmount     int64                 `db:"discount_amount" json:"discount_amount"`
	FinalFee           int64                 `db:"final_fee" json:"final_fee"`
	PaidAmount         int64                 `db:"paid_amount" json:"paid_amount"`
	RemainingAmount    int64                 `db:"remaining_amount" json:"remaining_amount"`
	PaymentStatus      derived.PaymentStatus `db:"payment_status" json:"payment_status"`
	DiscountReason     string                `db:"discount_reason" json:"discount_reason"`
	PaymentMethod      string                `db:"payment_method" json:"payment_method"`
	Source             string                `db:"source" json:"source"`
	ReferralBy         string                `db:"referral_by" json:"referral_by"`
	Campaign           string                `db:"campaign" json:"campaign"`
	StudentStatus      string                `db:"student_status" json:"student_status"`
	AssignedInstructor string                `db:"assigned_instructor" json:"assigned_instructor"`
	Notes              string                `db:"notes" json:"notes"`
	CreatedAt          time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time             `db:"updated_at" json:"updated_at"`
}

// Recompute refreshes final fee, balance and payment status from the stored amounts.
func (s *Student) Recompute() {
	fees := derived.ComputeStudentDerived(s.TuitionFee, s.DiscountAmount, s.PaidAmount)
	s.FinalFee = fees.FinalFee
	s.RemainingAmount = fees.RemainingAmount
	s.PaymentStatus = fees.PaymentStatus
}

// Amounts projects the money columns.
func (s Student) Amounts() derived.StudentAmounts {
	return derived.StudentAmounts{
		TuitionFee:      s.TuitionFee,
		FinalFee:        s.FinalFee,
		PaidAmount:      s.PaidAmount,
		RemainingAmount: s.RemainingAmount,
	}
}

// Summary projects the student for dashboard statistics.
func (s Student) Summary() derived.StudentSummary {
	return derived.StudentSummary{
		StudentAmounts: s.Amounts(),
		StudentStatus:  s.StudentStatus,
		PaymentStatus:  s.PaymentStatus,
		Source:         s.Source,
	}
}

// StudentFilter captures listing criteria. "all" or "" disables a field.
type StudentFilter struct {
	CourseID      *int64
	PaymentStatus string
	StudentStatus string
	Search        string
}
